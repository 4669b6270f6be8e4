// Package reaction names ENDF reaction identifiers (MT numbers) and the sum
// rules that define composite reactions in terms of their constituents.
package reaction

import (
	"fmt"
	"strconv"
	"strings"
)

// MT is an ENDF reaction identifier.
type MT int

// Commonly used reaction identifiers.
const (
	Total      MT = 1
	Elastic    MT = 2
	Nonelastic MT = 3
	Inelastic  MT = 4
	Anything   MT = 5
	N2N        MT = 16
	N3N        MT = 17
	Fission    MT = 18
	NF         MT = 19
	NNF        MT = 20
	N2NF       MT = 21
	NNAlpha    MT = 22
	N2NAlpha   MT = 24
	NNP        MT = 28
	N3NF       MT = 38
	Absorption MT = 101
	Capture    MT = 102
	NP         MT = 103
	ND         MT = 104
	NT         MT = 105
	NHe3       MT = 106
	NAlpha     MT = 107
	N2Alpha    MT = 108
	Heating    MT = 301
	Damage     MT = 444
)

// FissionMTs lists the identifiers whose presence marks a nuclide fissionable.
var FissionMTs = []MT{Fission, NF, NNF, N2NF, N3NF}

var names = map[MT]string{
	Total:      "(n,total)",
	Elastic:    "(n,elastic)",
	Nonelastic: "(n,nonelastic)",
	Inelastic:  "(n,level)",
	Anything:   "(n,misc)",
	N2N:        "(n,2n)",
	N3N:        "(n,3n)",
	Fission:    "(n,fission)",
	NF:         "(n,f)",
	NNF:        "(n,nf)",
	N2NF:       "(n,2nf)",
	NNAlpha:    "(n,na)",
	N2NAlpha:   "(n,2na)",
	NNP:        "(n,np)",
	N3NF:       "(n,3nf)",
	Absorption: "(n,absorption)",
	Capture:    "(n,gamma)",
	NP:         "(n,p)",
	ND:         "(n,d)",
	NT:         "(n,t)",
	NHe3:       "(n,3He)",
	NAlpha:     "(n,a)",
	N2Alpha:    "(n,2a)",
	Heating:    "heating",
	Damage:     "damage-energy",
}

var byName = func() map[string]MT {
	m := make(map[string]MT, len(names)+4)
	for mt, n := range names {
		m[strings.ToLower(n)] = mt
	}
	// common aliases
	m["total"] = Total
	m["elastic"] = Elastic
	m["fission"] = Fission
	m["(n,alpha)"] = NAlpha
	return m
}()

// Name returns a descriptive name for mt, or "MT<n>" when none is known.
func (mt MT) Name() string {
	if n, ok := names[mt]; ok {
		return n
	}
	switch {
	case mt >= 51 && mt <= 90:
		return fmt.Sprintf("(n,n%d)", int(mt)-50)
	case mt == 91:
		return "(n,nc)"
	}
	return fmt.Sprintf("MT%d", int(mt))
}

func (mt MT) String() string { return strconv.Itoa(int(mt)) }

// Parse accepts an MT number ("102"), "MT102" or a descriptive name such as
// "(n,gamma)" and returns the identifier.
func Parse(s string) (MT, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, fmt.Errorf("empty reaction identifier")
	}
	num := strings.TrimPrefix(strings.ToUpper(t), "MT")
	if n, err := strconv.Atoi(num); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("reaction identifier %d must be positive", n)
		}
		return MT(n), nil
	}
	if mt, ok := byName[strings.ToLower(t)]; ok {
		return mt, nil
	}
	return 0, fmt.Errorf("unknown reaction %q", s)
}
