package fixed

// Field names a byte range inside a record.
type Field struct {
	Name   string `yaml:"name" json:"name"`
	Start  int    `yaml:"start" json:"start"`
	Length int    `yaml:"length" json:"length"`
}

// Layout is an ordered set of fields describing a record.
type Layout []Field

// FieldValue is a decoded field.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Validate checks that every field is named once and fits in width.
func (l Layout) Validate(width int) error {
	if width <= 0 {
		return invalidArgument("record width must be > 0, got %d", width)
	}
	seen := make(map[string]struct{}, len(l))
	for i, f := range l {
		if f.Name == "" {
			return invalidArgument("field %d has no name", i)
		}
		if _, ok := seen[f.Name]; ok {
			return invalidArgument("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Start < 0 || f.Length <= 0 || f.Length > width-f.Start {
			return invalidArgument("field %q [%d, %d) does not fit in width %d", f.Name, f.Start, f.Start+f.Length, width)
		}
	}
	return nil
}

// Decode extracts every field of rec in layout order. With trim set, trailing
// pad bytes are removed from each value.
func (l Layout) Decode(rec *Record, trim bool) ([]FieldValue, error) {
	if rec == nil {
		return nil, invalidArgument("nil record")
	}
	values := make([]FieldValue, 0, len(l))
	for _, f := range l {
		v, err := rec.Text(f.Start, f.Length)
		if err != nil {
			return nil, err
		}
		if trim {
			v = trimPad(v, rec.Pad())
		}
		values = append(values, FieldValue{Name: f.Name, Value: v})
	}
	return values, nil
}

// Encode writes values into rec by field name, padding with the record's pad
// byte. Fields missing from values are reset; unknown names are rejected.
func (l Layout) Encode(rec *Record, values map[string]string) error {
	if rec == nil {
		return invalidArgument("nil record")
	}
	known := make(map[string]struct{}, len(l))
	for _, f := range l {
		known[f.Name] = struct{}{}
	}
	for name := range values {
		if _, ok := known[name]; !ok {
			return invalidArgument("unknown field %q", name)
		}
	}
	for _, f := range l {
		if err := rec.SetString(values[f.Name], f.Start, f.Length); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the field names in layout order.
func (l Layout) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}

func trimPad(s string, pad byte) string {
	end := len(s)
	for end > 0 && s[end-1] == pad {
		end--
	}
	return s[:end]
}
