package ast

type ExprBinaryOp uint8

const (
	ExprBinaryInvalid ExprBinaryOp = iota
	ExprBinaryAdd
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
)

var binaryOps = map[string]ExprBinaryOp{
	"+": ExprBinaryAdd,
	"-": ExprBinarySub,
	"*": ExprBinaryMul,
	"/": ExprBinaryDiv,
}

// LookupBinaryOp maps an operator literal to its class.
func LookupBinaryOp(literal string) (ExprBinaryOp, bool) {
	op, ok := binaryOps[literal]
	return op, ok
}

func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "Add"
	case ExprBinarySub:
		return "Sub"
	case ExprBinaryMul:
		return "Mul"
	case ExprBinaryDiv:
		return "Div"
	default:
		return "Invalid"
	}
}
