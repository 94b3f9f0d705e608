package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for diagnostic codes.
// data fills the {placeholders} of a message (for example "key" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"unknown_component_type":              "unknown component type {type}",
		"missing_required_prop":               "required prop {key} is missing",
		"unknown_prop":                        "unknown prop {key}",
		"invalid_prop_type":                   "expected {expected}, got {got}",
		"invalid_enum_value":                  "value {got} is not one of {allowed}",
		"children_not_allowed":                "component {type} does not accept children",
		"children_required_but_missing_array": "component {type} expects children to be an array",
		"unknown_action":                      "unknown action {got}",
		"max_depth_exceeded":                  "nesting exceeds the maximum depth of {limit}",
		"refinement_failed":                   "{rule}",
		"invalid_node":                        "element must be an object with a type",
		"parse_error":                         "document is not valid JSON: {cause}",
		"duplicate_key":                       "key {key} is duplicated",
		"too_large":                           "document exceeds {limit} bytes",
	},
	"pt": {
		"unknown_component_type":              "tipo de componente desconhecido {type}",
		"missing_required_prop":               "a propriedade obrigatória {key} está ausente",
		"unknown_prop":                        "propriedade desconhecida {key}",
		"invalid_prop_type":                   "esperado {expected}, recebido {got}",
		"invalid_enum_value":                  "o valor {got} não é um de {allowed}",
		"children_not_allowed":                "o componente {type} não aceita filhos",
		"children_required_but_missing_array": "o componente {type} espera filhos em um array",
		"unknown_action":                      "ação desconhecida {got}",
		"max_depth_exceeded":                  "o aninhamento excede a profundidade máxima de {limit}",
		"refinement_failed":                   "{rule}",
		"invalid_node":                        "o elemento deve ser um objeto com tipo",
		"parse_error":                         "o documento não é um JSON válido: {cause}",
		"duplicate_key":                       "a chave {key} está duplicada",
		"too_large":                           "o documento excede {limit} bytes",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Languages lists the built-in dictionaries.
func Languages() []string { return []string{"en", "pt"} }

// ForLanguage returns the built-in Translator for lang, falling back to English.
func ForLanguage(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the process-wide Translator language ("en"/"pt").
func SetLanguage(lang string) { SetTranslator(ForLanguage(lang)) }

// SetTranslator replaces the process-wide Translator (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// Current returns the process-wide Translator.
func Current() Translator {
	mu.RLock()
	defer mu.RUnlock()
	return currentTranslator
}

// T fetches a message for the given code using the process-wide Translator.
func T(code string, data map[string]string) string { return Current().Message(code, data) }
