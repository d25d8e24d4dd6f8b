package model

import "fmt"

// Family is the tag of a key
type Family string

const (
	FamilyBuild     Family = "x"
	FamilyPhi       Family = "Phi"
	FamilyBeta      Family = "beta"
	FamilyUse       Family = "use"
	FamilyMcCormick Family = "McC"
)

// VarKey identifies a variable. Part distinguishes the members of a pair
// (Phi1/Phi2, beta1/beta2) and is zero for unpaired families.
type VarKey struct {
	Family Family
	Part   int
	I      int
	J      int
}

// Name is the display name used at the solver boundary
func (k VarKey) Name() string {
	if k.Part > 0 {
		return fmt.Sprintf("%s%d[%d,%d]", k.Family, k.Part, k.I, k.J)
	}
	return fmt.Sprintf("%s[%d,%d]", k.Family, k.I, k.J)
}

func (k VarKey) String() string {
	return k.Name()
}

// RowKey identifies a constraint. Sub numbers the rows of one McCormick
// envelope and is zero elsewhere.
type RowKey struct {
	Family Family
	Part   int
	Sub    int
	I      int
	J      int
}

// Name is the display name used at the solver boundary
func (k RowKey) Name() string {
	switch {
	case k.Sub > 0:
		return fmt.Sprintf("%s%d_%d[%d,%d]", k.Family, k.Sub, k.Part, k.I, k.J)
	case k.Part > 0:
		return fmt.Sprintf("%s%d[%d,%d]", k.Family, k.Part, k.I, k.J)
	default:
		return fmt.Sprintf("%s[%d,%d]", k.Family, k.I, k.J)
	}
}

func (k RowKey) String() string {
	return k.Name()
}

// BuildKey is x[a,t]
func BuildKey(arc, period int) VarKey {
	return VarKey{Family: FamilyBuild, I: arc, J: period}
}

// PhiKey is Phi_m[a,t] for m in {1, 2}
func PhiKey(m, arc, period int) VarKey {
	return VarKey{Family: FamilyPhi, Part: m, I: arc, J: period}
}

// BetaKey is beta_m[t,k] for m in {1, 2}
func BetaKey(m, period, commodity int) VarKey {
	return VarKey{Family: FamilyBeta, Part: m, I: period, J: commodity}
}

// UseKey is use[a,t-1], the row tying x[a,t] to x[a,t-1]
func UseKey(arc, period int) RowKey {
	return RowKey{Family: FamilyUse, I: arc, J: period - 1}
}

// McCormickKey is McC<sub>_<m>[a,t], sub in {1, 2, 3}
func McCormickKey(sub, m, arc, period int) RowKey {
	return RowKey{Family: FamilyMcCormick, Part: m, Sub: sub, I: arc, J: period}
}
