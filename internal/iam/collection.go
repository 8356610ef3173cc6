package iam

// Collection is the full, ordered set of policies consulted for one
// authorization decision.
type Collection[AC Value[AC], P Value[P], S Value[S], R Value[R], A Value[A], T Value[T], I Value[I]] []Policy[AC, P, S, R, A, T, I]

// Eval folds the collection's policies into one three-valued result,
// short-circuiting on the first deny.
func (c Collection[AC, P, S, R, A, T, I]) Eval(action AC, resource Resource[P, S, R, A, T, I]) MaybeEffect {
	return foldEffects(len(c), func(i int) MaybeEffect {
		return c[i].Eval(action, resource)
	})
}

// Allows collapses the collection to the final authorization decision:
// default deny when nothing matches, and an explicit deny anywhere in
// the collection overrides any allow regardless of ordering. This is
// the externally consumed entry point.
func (c Collection[AC, P, S, R, A, T, I]) Allows(action AC, resource Resource[P, S, R, A, T, I]) bool {
	return c.Eval(action, resource) == Allowed
}
