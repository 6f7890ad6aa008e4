package form

// Kind selects the rule set and the output type of a field.
type Kind int

const (
	KindText       Kind = iota // single-language free text → string
	KindBilingual              // English + Indonesian pair (name, name_id) → string, string
	KindURL                    // absolute http(s) URL → string
	KindOrder                  // ordering/priority typed as text, integer ≥ 0 → int
	KindInt                    // other non-negative integers → int
	KindSlug                   // lowercase letters, digits, hyphens → string
	KindBool                   // toggle → bool
	KindForeignKey             // positive id present in the loaded reference set → int64
	KindEmail                  // e-mail address → string
	KindDate                   // YYYY-MM-DD → string
	KindChoice                 // one of Options → string
)

// IndonesianSuffix is appended to a bilingual field name for its Indonesian half.
const IndonesianSuffix = "_id"

// DateLayout is the wire format of date fields.
const DateLayout = "2006-01-02"

// Field declares one input of an entity form and the rules that govern it.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Max         int      // max rune length for text kinds, 0 = unlimited
	Lookup      string   // KindForeignKey: reference set, e.g. "gallery-categories"
	Options     []string // KindChoice
	DeriveFrom  string   // KindSlug: generated from this field when left empty
	ThumbnailOf string   // KindURL: filled from the upload of the named image field
	Default     any
}

// Keys returns the draft keys the field occupies. Bilingual fields occupy two.
func (f Field) Keys() []string {
	if f.Kind == KindBilingual {
		return []string{f.Name, f.Name + IndonesianSuffix}
	}
	return []string{f.Name}
}

// WithMax caps the rune length of a text field.
func (f Field) WithMax(n int) Field {
	f.Max = n
	return f
}

// WithLabel sets the human label used by renderers.
func (f Field) WithLabel(label string) Field {
	f.Label = label
	return f
}

// WithDefault sets the value a create form starts with.
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// ========================================
// FIELD CONSTRUCTORS
// ========================================

func Text(name string, required bool) Field {
	return Field{Name: name, Kind: KindText, Required: required}
}

// Bilingual declares an English/Indonesian pair sharing one rule.
func Bilingual(name string, required bool) Field {
	return Field{Name: name, Kind: KindBilingual, Required: required}
}

func URL(name string, required bool) Field {
	return Field{Name: name, Kind: KindURL, Required: required}
}

// Thumbnail declares a URL derived from the upload of imageField.
// It stays writable: a value typed before any upload is submitted as-is.
func Thumbnail(name, imageField string) Field {
	return Field{Name: name, Kind: KindURL, ThumbnailOf: imageField}
}

// Order declares a required ordering integer. Create forms start at "0".
func Order(name string) Field {
	return Field{Name: name, Kind: KindOrder, Required: true, Default: "0"}
}

func Int(name string, required bool) Field {
	return Field{Name: name, Kind: KindInt, Required: required}
}

// Slug declares a slug generated from the from field when left empty.
func Slug(name, from string, required bool) Field {
	return Field{Name: name, Kind: KindSlug, Required: required, DeriveFrom: from}
}

func Bool(name string, def bool) Field {
	return Field{Name: name, Kind: KindBool, Default: def}
}

// ForeignKey declares a required reference into the lookup set.
func ForeignKey(name, lookup string) Field {
	return Field{Name: name, Kind: KindForeignKey, Required: true, Lookup: lookup}
}

func Email(name string, required bool) Field {
	return Field{Name: name, Kind: KindEmail, Required: required}
}

func Date(name string, required bool) Field {
	return Field{Name: name, Kind: KindDate, Required: required}
}

func Choice(name string, options ...string) Field {
	return Field{Name: name, Kind: KindChoice, Required: true, Options: options}
}
