package ir

// Structural equality, spans excluded. Spans carry front-end positions that
// legitimately differ between two equivalent productions (a generated body
// has no source at all), so equivalence checks ignore them.

// EqualExpr reports whether a and b are structurally identical.
func EqualExpr(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ExprLit:
		da, db := a.Data.(LitData), b.Data.(LitData)
		if da.Kind != db.Kind {
			return false
		}
		switch da.Kind {
		case LitInt:
			return da.Int == db.Int
		case LitFloat:
			return da.Float == db.Float
		case LitBool:
			return da.Bool == db.Bool
		case LitString:
			return da.Str == db.Str
		case LitNull:
			return true
		}
		return false
	case ExprParamRef:
		da, db := a.Data.(ParamRefData), b.Data.(ParamRefData)
		return da.Index == db.Index
	case ExprLocalRef:
		da, db := a.Data.(LocalRefData), b.Data.(LocalRefData)
		return da.Name == db.Name
	case ExprGlobalRef:
		da, db := a.Data.(GlobalRefData), b.Data.(GlobalRefData)
		return da.Name == db.Name && da.Cached == db.Cached
	case ExprUnary:
		da, db := a.Data.(UnaryData), b.Data.(UnaryData)
		return da.Op == db.Op && EqualExpr(da.Operand, db.Operand)
	case ExprBinary:
		da, db := a.Data.(BinaryData), b.Data.(BinaryData)
		return da.Op == db.Op && EqualExpr(da.Left, db.Left) && EqualExpr(da.Right, db.Right)
	case ExprCall:
		da, db := a.Data.(CallData), b.Data.(CallData)
		if !EqualExpr(da.Callee, db.Callee) || len(da.Args) != len(db.Args) {
			return false
		}
		for i := range da.Args {
			if !EqualExpr(da.Args[i], db.Args[i]) {
				return false
			}
		}
		return true
	case ExprMember:
		da, db := a.Data.(MemberData), b.Data.(MemberData)
		return da.Name == db.Name && da.Decl == db.Decl && EqualExpr(da.Object, db.Object)
	case ExprDeclRef:
		da, db := a.Data.(DeclRefData), b.Data.(DeclRefData)
		return da.Decl == db.Decl
	case ExprIndex:
		da, db := a.Data.(IndexData), b.Data.(IndexData)
		return EqualExpr(da.Object, db.Object) && EqualExpr(da.Index, db.Index)
	case ExprCond:
		da, db := a.Data.(CondData), b.Data.(CondData)
		return EqualExpr(da.Cond, db.Cond) && EqualExpr(da.Then, db.Then) && EqualExpr(da.Else, db.Else)
	case ExprFunc:
		da, db := a.Data.(FuncData), b.Data.(FuncData)
		return EqualFunc(da.Func, db.Func)
	}
	return false
}

// EqualStmt reports whether a and b are structurally identical.
func EqualStmt(a, b *Stmt) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case StmtExpr:
		da, db := a.Data.(ExprStmtData), b.Data.(ExprStmtData)
		return EqualExpr(da.Expr, db.Expr)
	case StmtLet:
		da, db := a.Data.(LetData), b.Data.(LetData)
		return da.Name == db.Name && EqualExpr(da.Value, db.Value)
	case StmtReturn:
		da, db := a.Data.(ReturnData), b.Data.(ReturnData)
		return EqualExpr(da.Value, db.Value)
	}
	return false
}

// EqualBlock reports whether a and b are structurally identical.
func EqualBlock(a, b *Block) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Stmts) != len(b.Stmts) {
		return false
	}
	for i := range a.Stmts {
		if !EqualStmt(a.Stmts[i], b.Stmts[i]) {
			return false
		}
	}
	return true
}

// EqualFunc reports whether a and b are structurally identical. Parameter
// names participate: bound bodies reference parameters by index, but the
// emitter prints names, so two equivalent functions must agree on them.
func EqualFunc(a, b *Func) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Name != b.Params[i].Name {
			return false
		}
	}
	return EqualBlock(a.Body, b.Body)
}
