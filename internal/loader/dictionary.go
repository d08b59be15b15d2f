package loader

// DictionaryLoader serves templates from memory.
type DictionaryLoader struct {
	Templates map[string]string
}

// NewDictionaryLoader wraps templates. The map is not copied.
func NewDictionaryLoader(templates map[string]string) *DictionaryLoader {
	return &DictionaryLoader{Templates: templates}
}

func (d *DictionaryLoader) String() string {
	return "DictionaryLoader"
}

func (d *DictionaryLoader) Load(name string) (string, error) {
	if content, ok := d.Templates[name]; ok {
		return content, nil
	}
	return "", notFound(d, name)
}
