package symtab

// DeclID addresses a declaration in a Table. The zero value is no
// declaration.
type DeclID int32

const (
	NoDecl DeclID = 0
	// GlobalID is the global namespace of every table
	GlobalID DeclID = 1
)

// Access is the access level of a base class
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

// Parent links a class to one of its bases
type Parent struct {
	Base    DeclID
	Virtual bool
	Access  Access
}

// Flags are the boolean properties of a declaration
type Flags uint16

const (
	FlagStatic Flags = 1 << iota
	// FlagConst and FlagVolatile qualify the implicit object of a member function
	FlagConst
	FlagVolatile
	FlagExplicit
	FlagConversion
	FlagForward
	FlagVarArgs
	FlagFriend
	FlagDefined
	// FlagObject marks variables, parameters and data members; their Type
	// is the type of the object rather than the kind of entity
	FlagObject
)

// Declaration is one named or unnamed entity. Every reference to another
// declaration is a DeclID into the owning Table.
type Declaration struct {
	ID    DeclID
	Name  string
	Type  TypeInfo
	Scope DeclID
	Depth int
	Flags Flags

	// Params holds the parameter types of a function
	Params  []TypeInfo
	// Return is the return type of a function or the target of a
	// conversion operator
	Return  TypeInfo
	// Aliased is the type a typedef names
	Aliased TypeInfo

	members map[string][]DeclID
	order   []string
	Parents []Parent
	// Usings are the namespaces nominated by using-directives in this scope
	Usings  []DeclID

	// Origin is an opaque payload for the caller, such as the AST node
	// that declared the entity
	Origin any
}

// Has reports whether all of f are set
func (d *Declaration) Has(f Flags) bool { return d.Flags&f == f }

// IsFunction reports whether d declares a function
func (d *Declaration) IsFunction() bool { return !d.IsObject() && d.Type.Kind == KindFunction }

// IsObject reports whether d declares a variable, parameter or data member
func (d *Declaration) IsObject() bool { return d.Has(FlagObject) }

// IsTypeName reports whether d declares a class or an enumeration
func (d *Declaration) IsTypeName() bool { return !d.IsObject() && d.Type.Kind.IsTypeName() }

// IsTypedef reports whether d is a typedef
func (d *Declaration) IsTypedef() bool { return !d.IsObject() && d.Type.Kind == KindType }

// IsStatic reports whether d carries the static flag
func (d *Declaration) IsStatic() bool { return d.Has(FlagStatic) }

// ObjectCV returns the qualification of the implicit object parameter
func (d *Declaration) ObjectCV() CV {
	var cv CV
	if d.Has(FlagConst) {
		cv |= CVConst
	}
	if d.Has(FlagVolatile) {
		cv |= CVVolatile
	}
	return cv
}

// Members returns the declarations registered under name in d
func (d *Declaration) Members(name string) []DeclID { return d.members[name] }

// MemberNames returns the names declared in d in declaration order
func (d *Declaration) MemberNames() []string { return d.order }

func (d *Declaration) addMember(name string, id DeclID) {
	if d.members == nil {
		d.members = make(map[string][]DeclID)
	}
	if _, ok := d.members[name]; !ok {
		d.order = append(d.order, name)
	}
	d.members[name] = append(d.members[name], id)
}
