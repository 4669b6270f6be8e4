// Package element is a static lookup service for natural elements: isotopic
// abundances, isotope masses and element names.
package element

import (
	"sort"
	"strconv"
	"unicode"
)

// masses holds isotope masses in unified atomic mass units for the isotopes
// most often found in transport problems.
var masses = map[string]float64{
	"H1": 1.00782503207, "H2": 2.0141017778,
	"He3": 3.0160293191, "He4": 4.00260325415,
	"Li6": 6.015122795, "Li7": 7.01600455,
	"Be9":  9.0121822,
	"B10":  10.0129370, "B11": 11.0093054,
	"C12":  12.0, "C13": 13.0033548378,
	"N14":  14.0030740048, "N15": 15.0001088982,
	"O16":  15.99491461956, "O17": 16.99913170, "O18": 17.9991610,
	"F19":  18.99840322,
	"Na23": 22.9897692809,
	"Mg24": 23.985041700, "Mg25": 24.98583692, "Mg26": 25.982592929,
	"Al27": 26.98153863,
	"Si28": 27.9769265325, "Si29": 28.976494700, "Si30": 29.97377017,
	"P31":  30.97376163,
	"S32":  31.97207100,
	"Cl35": 34.96885268, "Cl37": 36.96590259,
	"Ar40": 39.9623831225,
	"K39":  38.96370668,
	"Ca40": 39.96259098,
	"Ti48": 47.9479463,
	"Cr50": 49.9460442, "Cr52": 51.9405075, "Cr53": 52.9406494, "Cr54": 53.9388804,
	"Mn55": 54.9380451,
	"Fe54": 53.9396105, "Fe56": 55.9349375, "Fe57": 56.9353940, "Fe58": 57.9332756,
	"Co59": 58.9331950,
	"Ni58": 57.9353429, "Ni60": 59.9307864, "Ni61": 60.9310560, "Ni62": 61.9283451, "Ni64": 63.9279660,
	"Cu63": 62.9295975, "Cu65": 64.9277895,
	"Zr90":  89.9047044,
	"Mo98":  97.9054082,
	"W184":  183.9509312,
	"Pb206": 205.9744653, "Pb207": 206.9758969, "Pb208": 207.9766521,
	"Th232": 232.0380553,
	"U234":  234.0409521, "U235": 235.0439299, "U238": 238.0507882,
	"Pu239": 239.0521634,
}

// byElement groups the abundance table by element symbol, isotopes ordered by
// mass number.
var byElement = func() map[string][]string {
	out := make(map[string][]string)
	for n := range abundances {
		sym, _, ok := Split(n)
		if !ok {
			continue
		}
		out[sym] = append(out[sym], n)
	}
	for _, isos := range out {
		sort.Slice(isos, func(i, j int) bool {
			_, ai, _ := Split(isos[i])
			_, aj, _ := Split(isos[j])
			return ai < aj
		})
	}
	return out
}()

// Nuclides returns the naturally occurring isotopes of the element with the
// given symbol, lightest first. An unknown symbol yields an empty list.
func Nuclides(symbol string) []string {
	return append([]string(nil), byElement[symbol]...)
}

// Abundance returns the natural atom fraction of nuclide.
func Abundance(nuclide string) (float64, bool) {
	f, ok := abundances[nuclide]
	return f, ok
}

// AtomicMass returns the mass of nuclide in atomic mass units (g/mol).
func AtomicMass(nuclide string) (float64, bool) {
	m, ok := masses[nuclide]
	return m, ok
}

// Name returns the lower-case English name of the element, or "" if unknown.
func Name(symbol string) string {
	return names[symbol]
}

// Split breaks a nuclide name such as "Fe56" into its element symbol and
// mass number. Metastable suffixes ("Am242_m1") are ignored.
func Split(nuclide string) (symbol string, massNumber int, ok bool) {
	i := 0
	for i < len(nuclide) && unicode.IsLetter(rune(nuclide[i])) {
		i++
	}
	j := i
	for j < len(nuclide) && unicode.IsDigit(rune(nuclide[j])) {
		j++
	}
	if i == 0 || j == i {
		return "", 0, false
	}
	a, err := strconv.Atoi(nuclide[i:j])
	if err != nil || a <= 0 {
		return "", 0, false
	}
	return nuclide[:i], a, true
}
