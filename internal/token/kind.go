package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit

	KwImport
	KwType
	KwIs
	KwWhere
	KwFunction
	KwRequires
	KwEnsures
	KwAssert
	KwAssume
	KwPrint
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwTrue
	KwFalse
	KwResult

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	BangEq     // !=
	Bang       // !
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	AndAnd     // &&
	OrOr       // ||
	Implies    // ==>
	Arrow      // ->
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
)

var kindNames = [...]string{
	Invalid:    "invalid token",
	EOF:        "end of input",
	Ident:      "identifier",
	IntLit:     "integer literal",
	KwImport:   "import",
	KwType:     "type",
	KwIs:       "is",
	KwWhere:    "where",
	KwFunction: "function",
	KwRequires: "requires",
	KwEnsures:  "ensures",
	KwAssert:   "assert",
	KwAssume:   "assume",
	KwPrint:    "print",
	KwReturn:   "return",
	KwIf:       "if",
	KwElse:     "else",
	KwWhile:    "while",
	KwTrue:     "true",
	KwFalse:    "false",
	KwResult:   "result",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	Assign:     "=",
	EqEq:       "==",
	BangEq:     "!=",
	Bang:       "!",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	AndAnd:     "&&",
	OrOr:       "||",
	Implies:    "==>",
	Arrow:      "->",
	ColonColon: "::",
	Semicolon:  ";",
	Comma:      ",",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Quoted renders the kind the way parser messages refer to it.
func (k Kind) Quoted() string {
	switch k {
	case Invalid, EOF, Ident, IntLit:
		return k.String()
	}
	return "'" + k.String() + "'"
}
