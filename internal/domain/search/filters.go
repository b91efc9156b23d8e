package search

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// PageSize es fijo: la UI pagina de a 25.
const PageSize = 25

var (
	ErrInvalidSort     = errors.New("invalid sort order")
	ErrInvalidAgeRange = errors.New("invalid age range: need 0 <= min <= max")
)

// SortOrder son las seis opciones del selector de orden.
// @Enum asc, desc, nameAsc, nameDesc, ageAsc, ageDesc
type SortOrder string

const (
	SortBreedAsc  SortOrder = "asc"
	SortBreedDesc SortOrder = "desc"
	SortNameAsc   SortOrder = "nameAsc"
	SortNameDesc  SortOrder = "nameDesc"
	SortAgeAsc    SortOrder = "ageAsc"
	SortAgeDesc   SortOrder = "ageDesc"

	DefaultSort = SortBreedAsc
)

var sortParams = map[SortOrder]string{
	SortBreedAsc:  "breed:asc",
	SortBreedDesc: "breed:desc",
	SortNameAsc:   "name:asc",
	SortNameDesc:  "name:desc",
	SortAgeAsc:    "age:asc",
	SortAgeDesc:   "age:desc",
}

func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.TrimSpace(s))
	if _, ok := sortParams[o]; !ok {
		return "", ErrInvalidSort
	}
	return o, nil
}

func (o SortOrder) Valid() bool {
	_, ok := sortParams[o]
	return ok
}

// Param es el valor de `sort` que entiende la API ("campo:dir").
func (o SortOrder) Param() string {
	if p, ok := sortParams[o]; ok {
		return p
	}
	return sortParams[DefaultSort]
}

// AgeRange es el intervalo cerrado [Min, Max] en años.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var DefaultAgeRange = AgeRange{Min: 0, Max: 10}

func (a AgeRange) Validate() error {
	if a.Min < 0 || a.Max < 0 || a.Min > a.Max {
		return ErrInvalidAgeRange
	}
	return nil
}

// pair es el formato persistido: [min, max].
func (a AgeRange) pair() [2]int {
	return [2]int{a.Min, a.Max}
}

func ageFromPair(p [2]int) AgeRange {
	return AgeRange{Min: p[0], Max: p[1]}
}

var zipSep = regexp.MustCompile(`,\s*|\s+`)

// ParseZipCodes separa por coma (con espacios opcionales) o por espacios.
// Tokens vacíos se descartan.
func ParseZipCodes(input string) []string {
	out := make([]string, 0)
	for _, tok := range zipSep.Split(input, -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// IsValidZipCode: al menos 5 dígitos, ignorando el resto de caracteres.
func IsValidZipCode(zip string) bool {
	n := 0
	for _, r := range zip {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n >= 5
}

// HasValidZipCodes exige al menos un token y que todos sean válidos.
func HasValidZipCodes(input string) bool {
	codes := ParseZipCodes(input)
	if len(codes) == 0 {
		return false
	}
	for _, c := range codes {
		if !IsValidZipCode(c) {
			return false
		}
	}
	return true
}

// NormalizeBreeds quita vacíos y duplicados, conservando el orden de selección.
func NormalizeBreeds(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, b := range in {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
