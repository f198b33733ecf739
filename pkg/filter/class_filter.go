// Package filter classifies class names into JDK, library and application
// classes so the remapper knows which classes it must not rename.
package filter

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ClassCategory represents the category of a class.
type ClassCategory int

const (
	// CategoryUnknown indicates the class category is unknown.
	CategoryUnknown ClassCategory = iota
	// CategoryPrimitive indicates primitive types and their arrays.
	CategoryPrimitive
	// CategoryJDK indicates classes shipped with the Java runtime.
	CategoryJDK
	// CategoryLibrary indicates third-party library classes.
	CategoryLibrary
	// CategoryApplication indicates classes of the analysed application.
	CategoryApplication
)

// String returns the string representation of the category.
func (c ClassCategory) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryJDK:
		return "jdk"
	case CategoryLibrary:
		return "library"
	case CategoryApplication:
		return "application"
	default:
		return "unknown"
	}
}

// DefaultCacheSize bounds the classification cache.
const DefaultCacheSize = 10000

var defaultJDKPrefixes = []string{
	"java/",
	"javax/",
	"jdk/",
	"sun/",
	"com/sun/",
}

// primitive descriptors and their Java source spellings
var primitives = map[string]bool{
	"Z": true, "B": true, "C": true, "S": true, "I": true, "J": true, "F": true, "D": true, "V": true,
	"boolean": true, "byte": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "void": true,
}

// ClassFilter classifies internal-form class names.
// It is safe for concurrent use.
type ClassFilter struct {
	mu sync.RWMutex

	jdkPrefixes         []string
	libraryPrefixes     []string
	applicationPrefixes []string

	cache *lru.Cache[string, ClassCategory]
}

// NewClassFilter creates a ClassFilter with the default JDK prefixes.
func NewClassFilter() *ClassFilter {
	return NewClassFilterWithCache(DefaultCacheSize)
}

// NewClassFilterWithCache creates a ClassFilter whose cache holds at most size
// entries. A size below 1 falls back to DefaultCacheSize.
func NewClassFilterWithCache(size int) *ClassFilter {
	if size < 1 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[string, ClassCategory](size)
	return &ClassFilter{
		jdkPrefixes: append([]string(nil), defaultJDKPrefixes...),
		cache:       cache,
	}
}

// Normalize converts a class reference to its internal form: dotted names
// become slash-separated and array descriptors are reduced to their element
// type ("[[Lcom/a/B;" -> "com/a/B", "int[]" -> "int").
func Normalize(className string) string {
	name := strings.TrimSpace(className)
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	name = strings.TrimLeft(name, "[")
	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		name = name[1 : len(name)-1]
	}
	return strings.ReplaceAll(name, ".", "/")
}

// Classify returns the category of className.
func (f *ClassFilter) Classify(className string) ClassCategory {
	if className == "" {
		return CategoryUnknown
	}
	if cat, ok := f.cache.Get(className); ok {
		return cat
	}

	cat := f.classifyUncached(Normalize(className))
	f.cache.Add(className, cat)
	return cat
}

func (f *ClassFilter) classifyUncached(name string) ClassCategory {
	if primitives[name] {
		return CategoryPrimitive
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	// explicit application prefixes win over everything but primitives
	if hasAnyPrefix(name, f.applicationPrefixes) {
		return CategoryApplication
	}
	if hasAnyPrefix(name, f.jdkPrefixes) {
		return CategoryJDK
	}
	if hasAnyPrefix(name, f.libraryPrefixes) {
		return CategoryLibrary
	}
	return CategoryApplication
}

// IsLibrary reports whether className belongs to the JDK or a library and so
// must keep its name.
func (f *ClassFilter) IsLibrary(className string) bool {
	switch f.Classify(className) {
	case CategoryPrimitive, CategoryJDK, CategoryLibrary:
		return true
	default:
		return false
	}
}

// IsJDK reports whether className is a runtime class.
func (f *ClassFilter) IsJDK(className string) bool {
	return f.Classify(className) == CategoryJDK
}

// IsApplication reports whether className belongs to the analysed application.
func (f *ClassFilter) IsApplication(className string) bool {
	return f.Classify(className) == CategoryApplication
}

// AddJDKPrefix registers an additional runtime package prefix.
func (f *ClassFilter) AddJDKPrefix(prefix string) {
	f.addPrefix(&f.jdkPrefixes, prefix)
}

// AddLibraryPrefixes registers third-party package prefixes, e.g. "com/google/gson/".
func (f *ClassFilter) AddLibraryPrefixes(prefixes []string) {
	for _, p := range prefixes {
		f.addPrefix(&f.libraryPrefixes, p)
	}
}

// AddApplicationPrefixes registers prefixes that are always application code,
// even when they fall under a library prefix.
func (f *ClassFilter) AddApplicationPrefixes(prefixes []string) {
	for _, p := range prefixes {
		f.addPrefix(&f.applicationPrefixes, p)
	}
}

// LibraryPrefixes returns a copy of the registered library prefixes.
func (f *ClassFilter) LibraryPrefixes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.libraryPrefixes...)
}

func (f *ClassFilter) addPrefix(dst *[]string, prefix string) {
	prefix = Normalize(prefix)
	if prefix == "" {
		return
	}

	f.mu.Lock()
	for _, p := range *dst {
		if p == prefix {
			f.mu.Unlock()
			return
		}
	}
	*dst = append(*dst, prefix)
	f.mu.Unlock()

	// rules changed, cached answers may be stale
	f.cache.Purge()
}

// ClearCache drops all cached classifications.
func (f *ClassFilter) ClearCache() {
	f.cache.Purge()
}

// CacheLen returns the number of cached classifications.
func (f *ClassFilter) CacheLen() int {
	return f.cache.Len()
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

var defaultFilter = NewClassFilter()

// Classify classifies className with the package-level default filter.
func Classify(className string) ClassCategory {
	return defaultFilter.Classify(className)
}

// IsLibrary reports whether className is a library class per the default filter.
func IsLibrary(className string) bool {
	return defaultFilter.IsLibrary(className)
}
