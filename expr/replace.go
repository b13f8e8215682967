package expr

import "fmt"

// Replace returns a copy of the composite v with operand i replaced by child.
// Untouched operands are copied verbatim and the parent's span and flags are
// recomputed. v itself is left unchanged.
func (b *Builder) Replace(v View, i int, child View) (Expr, error) {
	k := v.Kind()
	if !k.IsComposite() {
		return Expr{}, precondition("replace", nil, "%s has no operands", k)
	}
	ops := v.Operands().Index()
	if i < 0 || i >= len(ops) {
		return Expr{}, precondition("replace", ErrNoOperand, "index %d of %d", i, len(ops))
	}
	ops[i] = child
	var name string
	if k.IsFunction() {
		name = v.Name()
	}
	return b.composite(k, name, ops)
}

// ReplacePath replaces the span reached by following path from v, rebuilding
// every ancestor on the way back up. An empty path returns a copy of child.
func (b *Builder) ReplacePath(v View, path []int, child View) (Expr, error) {
	if len(path) == 0 {
		return b.Copy(child), nil
	}
	if path[0] < 0 || path[0] >= v.NumOperands() {
		return Expr{}, fmt.Errorf("replace path %v: %w", path, ErrNoOperand)
	}
	var scratch *Builder // temporaries stay out of the arena
	sub, err := scratch.ReplacePath(v.Child(path[0]), path[1:], child)
	if err != nil {
		return Expr{}, err
	}
	return b.Replace(v, path[0], sub.View())
}
