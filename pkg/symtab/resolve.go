package symtab

// Rank orders implicit conversion sequences, best first
type Rank int

const (
	RankIdentity Rank = iota
	RankPromotion
	RankConversion
	RankUserDefined
	RankEllipsis
	RankNoMatch
)

func (r Rank) String() string {
	switch r {
	case RankIdentity:
		return "identity"
	case RankPromotion:
		return "promotion"
	case RankConversion:
		return "conversion"
	case RankUserDefined:
		return "user-defined"
	case RankEllipsis:
		return "ellipsis"
	case RankNoMatch:
		return "no match"
	}
	return "rank(?)"
}

// Conversion details, lower is better. A derived-to-base conversion uses
// the inheritance depth, which stays below all of these.
const (
	convVoidPointer = 50
	convNullPointer = 60
	convArithmetic  = 70
	convBoolean     = 80
	convUnknown     = 90
)

// Cost is the implicit conversion sequence of one argument
type Cost struct {
	Rank Rank
	// Promotion counts integral and floating promotions
	Promotion int
	// Conversion grades the standard conversion applied
	Conversion int
	// Qualification counts the cv-qualifiers added
	Qualification int
	// UserDefined is the constructor or conversion function used
	UserDefined DeclID
}

var noMatch = Cost{Rank: RankNoMatch}

// Compare returns a negative number when c is the better sequence, a
// positive one when o is, and zero when neither is
func (c Cost) Compare(o Cost) int {
	if c.Rank != o.Rank {
		return int(c.Rank) - int(o.Rank)
	}
	// user-defined sequences through different functions are
	// indistinguishable
	if c.Rank == RankUserDefined && c.UserDefined != o.UserDefined {
		return 0
	}
	if c.Promotion != o.Promotion {
		return c.Promotion - o.Promotion
	}
	if c.Conversion != o.Conversion {
		return c.Conversion - o.Conversion
	}
	return c.Qualification - o.Qualification
}

// ResolveAmbiguities reduces data.Found to one declaration. A class or
// enumeration name is hidden by an object or function of the same scope.
// Functions form an overload set that is resolved against data.Params when
// present; without parameters a single function is returned, and several
// are left in data.Found with NoDecl as result.
func (t *Table) ResolveAmbiguities(data *LookupData) (DeclID, error) {
	if len(data.Found) == 0 {
		return NoDecl, nil
	}
	var typeName, object DeclID
	var functions []DeclID
	for _, id := range data.Found {
		d := t.decls[id]
		switch {
		case d.IsFunction():
			functions = append(functions, id)
		case d.IsTypeName():
			if typeName != NoDecl {
				return NoDecl, newError(CodeAmbiguous, data.Name, typeName, id)
			}
			typeName = id
		default:
			if object != NoDecl {
				return NoDecl, newError(CodeAmbiguous, data.Name, object, id)
			}
			object = id
		}
	}

	if typeName != NoDecl {
		other := object
		if other == NoDecl && len(functions) > 0 {
			other = functions[0]
		}
		if other != NoDecl {
			if t.decls[other].Scope != t.decls[typeName].Scope {
				return NoDecl, newError(CodeAmbiguous, data.Name, typeName, other)
			}
			typeName = NoDecl
		}
	}
	switch {
	case typeName != NoDecl:
		data.Found = nil
		return typeName, nil
	case object != NoDecl:
		if len(functions) > 0 {
			return NoDecl, newError(CodeAmbiguous, data.Name, append([]DeclID{object}, functions...)...)
		}
		data.Found = nil
		return object, nil
	}

	if !data.HasParams {
		if len(functions) == 1 {
			data.Found = nil
			return functions[0], nil
		}
		data.Found = functions
		return NoDecl, nil
	}
	return t.ResolveFunction(data, functions)
}

// ResolveFunction picks the best viable function among candidates for the
// argument types in data. The winner must be at least as good as every
// other viable function for each argument and better for one; otherwise
// the call is ambiguous. With no viable function the result is NoDecl and
// data.Found keeps the candidates.
func (t *Table) ResolveFunction(data *LookupData, candidates []DeclID) (DeclID, error) {
	data.Found = candidates
	viable := t.reduceToViable(data, candidates)

	var fns []DeclID
	var costs [][]Cost
	for _, id := range viable {
		seq, ok, err := t.conversionSequences(data, t.decls[id])
		if err != nil {
			return NoDecl, err
		}
		if !ok {
			continue
		}
		fns = append(fns, id)
		costs = append(costs, seq)
	}
	if len(fns) == 0 {
		return NoDecl, nil
	}

	best := 0
	for i := 1; i < len(fns); i++ {
		if compareSequences(costs[i], costs[best]) < 0 {
			best = i
		}
	}
	for i := range fns {
		if i != best && compareSequences(costs[best], costs[i]) >= 0 {
			t.log.Debug("ambiguous call", "name", data.Name, "candidates", len(fns))
			return NoDecl, newError(CodeAmbiguous, data.Name, fns...)
		}
	}
	data.Found = nil
	return fns[best], nil
}

// reduceToViable drops candidates that cannot take the argument count or
// the object qualification of the call
func (t *Table) reduceToViable(data *LookupData, candidates []DeclID) []DeclID {
	nargs := len(data.Params)
	var out []DeclID
	for _, id := range candidates {
		d := t.decls[id]
		params := normalizeParams(d.Params)
		switch {
		case len(params) < nargs && !d.Has(FlagVarArgs):
			continue
		case len(params) > nargs && !params[nargs].HasDefault:
			continue
		}
		if data.HasObject && !d.IsStatic() && !d.ObjectCV().Covers(data.ObjectCV) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// conversionSequences returns the cost of every argument of a call of fn,
// led by the implicit object argument when the call has one. ok is false
// when some argument cannot be converted; a call without arguments yields
// an empty sequence.
func (t *Table) conversionSequences(data *LookupData, fn *Declaration) (seq []Cost, ok bool, err error) {
	params := normalizeParams(fn.Params)
	seq = make([]Cost, 0, len(data.Params)+1)
	if data.HasObject {
		c := Cost{Rank: RankIdentity}
		if !fn.IsStatic() {
			c.Qualification = fn.ObjectCV().distance(data.ObjectCV)
		}
		seq = append(seq, c)
	}
	for i, arg := range data.Params {
		if i >= len(params) {
			seq = append(seq, Cost{Rank: RankEllipsis})
			continue
		}
		c := t.standardConversion(arg, params[i])
		if c.Rank == RankNoMatch {
			if c, err = t.userDefinedConversion(arg, params[i]); err != nil {
				return nil, false, err
			}
		}
		if c.Rank == RankNoMatch {
			return nil, false, nil
		}
		seq = append(seq, c)
	}
	return seq, true, nil
}

// compareSequences is negative when a is better for some argument and
// worse for none, positive in the opposite case and zero otherwise
func compareSequences(a, b []Cost) int {
	better, worse := false, false
	for i := range a {
		switch c := a[i].Compare(b[i]); {
		case c < 0:
			better = true
		case c > 0:
			worse = true
		}
	}
	switch {
	case better && !worse:
		return -1
	case worse && !better:
		return 1
	}
	return 0
}

// standardConversion grades converting a value of type src to dst using
// identity, qualification adjustment, promotion and conversion, in that
// order
func (t *Table) standardConversion(src, dst TypeInfo) Cost {
	src, dst = t.Canonical(src), t.Canonical(dst)
	if src.Kind == KindUndef || dst.Kind == KindUndef {
		return Cost{Rank: RankConversion, Conversion: convUnknown}
	}

	if dst.IsReference() {
		target, value := dst.StripReference(), src.StripReference()
		if c, ok := t.bindReference(value, target); ok {
			return c
		}
		// only a reference to const binds a converted temporary
		if !target.TopCV().Const() {
			return noMatch
		}
		dst = target
	}
	src = src.StripReference()

	if q, ok := qualificationDistance(src, dst); ok {
		return Cost{Rank: RankIdentity, Qualification: q}
	}
	if promotes(src, dst) {
		return Cost{Rank: RankPromotion, Promotion: 1}
	}
	return t.conversion(src, dst)
}

// bindReference binds a reference to target directly to an lvalue of
// type value
func (t *Table) bindReference(value, target TypeInfo) (Cost, bool) {
	if !target.TopCV().Covers(value.TopCV()) {
		return noMatch, false
	}
	q := target.TopCV().distance(value.TopCV())
	if value.Equal(target) {
		return Cost{Rank: RankIdentity, Qualification: q}, true
	}
	if len(value.PtrOps) == 0 && len(target.PtrOps) == 0 {
		if depth := t.baseDepth(value.Named, target.Named); depth > 0 {
			return Cost{Rank: RankConversion, Conversion: depth, Qualification: q}, true
		}
	}
	return noMatch, false
}

// qualificationDistance reports whether src converts to dst by adding
// cv-qualifiers below the outermost level only, and how many it adds
func qualificationDistance(src, dst TypeInfo) (int, bool) {
	if src.Kind != dst.Kind || src.Named != dst.Named || src.Mods&^ModNullPointer != dst.Mods&^ModNullPointer {
		return 0, false
	}
	a, b := decay(src.PtrOps), decay(dst.PtrOps)
	if len(a) != len(b) {
		return 0, false
	}
	if len(a) == 0 {
		return 0, true
	}
	if !dst.CV.Covers(src.CV) {
		return 0, false
	}
	n := dst.CV.distance(src.CV)
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Class != b[i].Class {
			return 0, false
		}
		if i == len(a)-1 {
			break
		}
		if !b[i].CV.Covers(a[i].CV) {
			return 0, false
		}
		n += b[i].CV.distance(a[i].CV)
	}
	return n, true
}

// promotes reports an integral or floating point promotion
func promotes(src, dst TypeInfo) bool {
	if len(src.PtrOps) > 0 || len(dst.PtrOps) > 0 {
		return false
	}
	switch dst.Kind {
	case KindInt:
		if dst.Mods&(ModShort|ModLong|ModUnsigned) != 0 {
			return false
		}
		switch src.Kind {
		case KindBool, KindChar, KindWChar, KindEnumeration:
			return true
		case KindInt:
			return src.Mods&ModShort != 0
		}
	case KindDouble:
		return src.Kind == KindFloat && dst.Mods&ModLong == 0
	}
	return false
}

func (t *Table) conversion(src, dst TypeInfo) Cost {
	srcPtr, dstPtr := src.IsPointer(), dst.IsPointer()
	dstMember := len(dst.PtrOps) > 0 && dst.PtrOps[len(dst.PtrOps)-1].Kind == PtrMember

	switch {
	case (dstPtr || dstMember) && src.IsNullPointerConstant():
		return Cost{Rank: RankConversion, Conversion: convNullPointer}

	case !dstPtr && len(dst.PtrOps) == 0 && dst.Kind == KindBool:
		if srcPtr || (len(src.PtrOps) == 0 && (src.Kind.IsArithmetic() || src.Kind == KindEnumeration)) {
			return Cost{Rank: RankConversion, Conversion: convBoolean}
		}

	case len(src.PtrOps) == 0 && len(dst.PtrOps) == 0:
		if (src.Kind.IsArithmetic() || src.Kind == KindEnumeration) && dst.Kind.IsArithmetic() {
			return Cost{Rank: RankConversion, Conversion: convArithmetic}
		}
		if depth := t.baseDepth(src.Named, dst.Named); depth > 0 {
			return Cost{Rank: RankConversion, Conversion: depth}
		}

	case srcPtr && dstPtr && len(dst.PtrOps) == 1 && len(src.PtrOps) == 1:
		from, to := src.Pointee(), dst.Pointee()
		if !to.CV.Covers(from.CV) {
			return noMatch
		}
		q := to.CV.distance(from.CV)
		if to.Kind == KindVoid {
			return Cost{Rank: RankConversion, Conversion: convVoidPointer, Qualification: q}
		}
		if depth := t.baseDepth(from.Named, to.Named); depth > 0 {
			return Cost{Rank: RankConversion, Conversion: depth, Qualification: q}
		}
	}
	return noMatch
}

// baseDepth returns the number of derivation steps from derived to base,
// or 0 when base is not a base class of derived
func (t *Table) baseDepth(derived, base DeclID) int {
	if derived == NoDecl || base == NoDecl || derived == base {
		return 0
	}
	seen := map[DeclID]bool{derived: true}
	level := []DeclID{derived}
	for depth := 1; len(level) > 0; depth++ {
		var next []DeclID
		for _, id := range level {
			d := t.Decl(id)
			if d == nil {
				continue
			}
			for _, p := range d.Parents {
				if p.Base == base {
					return depth
				}
				if !seen[p.Base] {
					seen[p.Base] = true
					next = append(next, p.Base)
				}
			}
		}
		level = next
	}
	return 0
}

// userDefinedConversion finds a single constructor of the target class or
// conversion function of the source class that converts src to dst. Two
// usable paths are ambiguous.
func (t *Table) userDefinedConversion(src, dst TypeInfo) (Cost, error) {
	src = t.Canonical(src).StripReference()
	target := t.Canonical(dst).StripReference()

	var paths []Cost
	if class := t.Decl(target.Named); class != nil && class.Type.Kind.IsClass() && len(target.PtrOps) == 0 {
		for _, id := range class.members[class.Name] {
			ctor := t.decls[id]
			if !ctor.IsFunction() || ctor.Has(FlagExplicit) {
				continue
			}
			params := normalizeParams(ctor.Params)
			if len(params) == 0 || (len(params) > 1 && !params[1].HasDefault) {
				continue
			}
			if c := t.standardConversion(src, params[0]); c.Rank <= RankConversion {
				paths = append(paths, Cost{Rank: RankUserDefined, UserDefined: id})
			}
		}
	}
	if class := t.Decl(src.Named); class != nil && class.Type.Kind.IsClass() && len(src.PtrOps) == 0 {
		for _, name := range class.order {
			for _, id := range class.members[name] {
				op := t.decls[id]
				if !op.IsFunction() || !op.Has(FlagConversion) || !op.ObjectCV().Covers(src.CV) {
					continue
				}
				c := t.standardConversion(op.Return, dst)
				if c.Rank > RankConversion {
					continue
				}
				c.Rank, c.UserDefined = RankUserDefined, id
				paths = append(paths, c)
			}
		}
	}

	switch len(paths) {
	case 0:
		return noMatch, nil
	case 1:
		return paths[0], nil
	}
	ids := make([]DeclID, len(paths))
	for i, p := range paths {
		ids[i] = p.UserDefined
	}
	return noMatch, newError(CodeAmbiguous, t.TypeString(dst), ids...)
}
