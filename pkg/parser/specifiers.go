package parser

import (
	"cxxscope/pkg/ast"
)

// declContext tells declaration parsing where it is
type declContext int

const (
	declTopLevel declContext = iota
	declMember
	declBlock
	declParameter
	declTypeID
	declCondition
)

func (p *Parser) cpp() bool { return p.opts.Language == ast.LanguageCPP }

// declSpecifierSeq parses a decl-specifier-seq. It returns nil without
// consuming anything when no specifier is present, which is legal for
// constructors, destructors, conversion functions and implicit int.
func (p *Parser) declSpecifierSeq(dc declContext) (ast.DeclSpecifier, error) {
	start := p.mark()
	var flags ast.Specifiers
	simple := &ast.SimpleDeclSpecifier{}
	var typed ast.DeclSpecifier
	sawSimple := false
	count := 0

	// build wraps up whatever was collected so far
	build := func() ast.DeclSpecifier {
		var spec ast.DeclSpecifier
		switch {
		case typed != nil:
			spec = typed
		case sawSimple || count > 0:
			spec = simple
		default:
			return nil
		}
		*spec.Flags() = flags
		if typed == nil {
			p.finish(spec, start)
		}
		return spec
	}

loop:
	for {
		p.skipGNUAttributes()
		tok := p.peek()
		switch tok.Type {
		case TokenTypedef:
			flags.Storage = ast.StorageTypedef
		case TokenExtern:
			if p.checkAhead(1, TokenString) {
				break loop
			}
			flags.Storage = ast.StorageExtern
		case TokenStatic:
			flags.Storage = ast.StorageStatic
		case TokenAuto:
			flags.Storage = ast.StorageAuto
		case TokenRegister:
			flags.Storage = ast.StorageRegister
		case TokenMutable:
			flags.Storage = ast.StorageMutable
		case TokenConst:
			flags.Const = true
		case TokenVolatile:
			flags.Volatile = true
		case TokenRestrict:
			flags.Restrict = true
		case TokenInline, TokenConstexpr:
			flags.Inline = true
		case TokenVirtual:
			flags.Virtual = true
		case TokenExplicit:
			flags.Explicit = true
		case TokenFriend:
			flags.Friend = true

		case TokenVoid, TokenChar, TokenWChar, TokenBool, TokenInt, TokenFloat, TokenDouble:
			if typed != nil || simple.Type != ast.TypeUnspecified {
				break loop
			}
			sawSimple = true
			simple.Type = simpleTypeOf(tok.Type)
		case TokenSigned, TokenUnsigned, TokenShort, TokenLong:
			if typed != nil {
				break loop
			}
			sawSimple = true
			switch tok.Type {
			case TokenSigned:
				simple.Signed = true
			case TokenUnsigned:
				simple.Unsigned = true
			case TokenShort:
				simple.Short = true
			case TokenLong:
				if simple.Long {
					simple.Long, simple.LongLong = false, true
				} else {
					simple.Long = true
				}
			}

		case TokenClass, TokenStruct, TokenUnion, TokenEnum:
			if typed != nil || sawSimple {
				break loop
			}
			var spec ast.DeclSpecifier
			var err error
			if tok.Type == TokenEnum {
				spec, err = p.enumSpecifier()
			} else {
				spec, err = p.classSpecifier(dc, flags.Friend)
			}
			if spec != nil {
				typed = spec
			}
			if err != nil {
				return build(), err
			}
			count++
			continue

		case TokenTypename:
			if typed != nil || sawSimple {
				break loop
			}
			nstart := p.mark()
			p.advance()
			n, err := p.name()
			if n == nil {
				return build(), err
			}
			named := &ast.NamedTypeSpecifier{Name: n, Typename: true}
			p.finish(named, nstart)
			typed = named
			if err != nil {
				return build(), err
			}
			count++
			continue

		case TokenIdentifier, TokenDoubleColon, TokenCompletion:
			if typed != nil || sawSimple {
				break loop
			}
			if tok.Type == TokenCompletion && dc != declTopLevel && dc != declMember && dc != declParameter {
				break loop
			}
			named, ok, err := p.namedTypeSpecifier(dc)
			if named != nil {
				typed = named
			}
			if err != nil {
				return build(), err
			}
			if !ok {
				break loop
			}
			count++
			continue

		default:
			break loop
		}
		p.advance()
		count++
	}
	return build(), nil
}

// namedTypeSpecifier tries to read a type name at the current position.
// It reports false and consumes nothing when the name is not a type here.
func (p *Parser) namedTypeSpecifier(dc declContext) (*ast.NamedTypeSpecifier, bool, error) {
	m := p.mark()
	n, err := p.name()
	if p.stopped && n != nil {
		named := &ast.NamedTypeSpecifier{Name: n}
		p.finish(named, m)
		return named, true, errStop
	}
	if err != nil || n == nil {
		p.rewind(m)
		return nil, false, nil
	}
	if p.isConstructorName(n, dc) || !p.looksLikeType(n, dc) {
		p.rewind(m)
		return nil, false, nil
	}
	named := &ast.NamedTypeSpecifier{Name: n}
	p.finish(named, m)
	return named, true, nil
}

// looksLikeType decides whether a parsed name is used as a type. Names
// known to the parser decide directly; unknown names (typically from
// headers that were not found) are guessed from what follows them.
func (p *Parser) looksLikeType(n ast.NameNode, dc declContext) bool {
	if sym, ok := p.lookupNameNode(n); ok {
		if sym.kind&symType != 0 {
			return true
		}
		if _, isTemplate := n.LastName().(*ast.TemplateID); isTemplate && sym.kind&symTemplate != 0 {
			return true
		}
		return false
	}
	if last, ok := n.LastName().(*ast.Name); ok && last.Form != ast.NameIdentifier {
		return false
	}
	next := p.peek()
	switch dc {
	case declTopLevel, declMember:
		switch next.Type {
		case TokenIdentifier, TokenStar, TokenAmpersand, TokenDoubleAmp, TokenOperator, TokenConst, TokenVolatile:
			return true
		case TokenLeftParen:
			// T (*fp)(); is a declaration, f(x); at file scope is a call-like
			// declaration without a type
			return p.checkAhead(1, TokenStar) || p.checkAhead(1, TokenAmpersand)
		case TokenDoubleColon:
			return p.checkAhead(1, TokenStar)
		}
	case declParameter:
		switch next.Type {
		case TokenIdentifier, TokenStar, TokenAmpersand, TokenDoubleAmp, TokenComma, TokenRightParen,
			TokenLeftBracket, TokenConst, TokenVolatile, TokenEquals, TokenEllipsis:
			return true
		}
	case declBlock, declCondition:
		return next.Type == TokenIdentifier
	}
	return false
}

// isConstructorName reports whether n followed by '(' declares a
// constructor: the class's own name inside its body, or X::X outside it
func (p *Parser) isConstructorName(n ast.NameNode, dc declContext) bool {
	if !p.cpp() || !p.check(TokenLeftParen) {
		return false
	}
	segs, _ := nameSegments(n)
	if len(segs) >= 2 {
		return segs[len(segs)-1] == segs[len(segs)-2]
	}
	if dc != declMember {
		return false
	}
	cls := p.currentClass()
	return cls != nil && len(segs) == 1 && segs[0] == cls.class
}

func simpleTypeOf(tt TokenType) ast.SimpleType {
	switch tt {
	case TokenVoid:
		return ast.TypeVoid
	case TokenChar:
		return ast.TypeChar
	case TokenWChar:
		return ast.TypeWChar
	case TokenBool:
		return ast.TypeBool
	case TokenInt:
		return ast.TypeInt
	case TokenFloat:
		return ast.TypeFloat
	case TokenDouble:
		return ast.TypeDouble
	}
	return ast.TypeUnspecified
}

// startsDeclSpecifier reports whether tok can only begin a declaration
func startsDeclSpecifier(tok Token) bool {
	switch tok.Type {
	case TokenTypedef, TokenExtern, TokenStatic, TokenAuto, TokenRegister, TokenMutable,
		TokenConst, TokenVolatile, TokenRestrict, TokenInline, TokenConstexpr, TokenVirtual,
		TokenExplicit, TokenFriend, TokenVoid, TokenChar, TokenWChar, TokenBool, TokenInt,
		TokenFloat, TokenDouble, TokenSigned, TokenUnsigned, TokenShort, TokenLong,
		TokenClass, TokenStruct, TokenUnion, TokenEnum, TokenTypename:
		return true
	}
	return false
}
