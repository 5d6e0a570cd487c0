package generator

import "strconv"

// keyVocabulary holds the preferred field names, assigned by position.
var keyVocabulary = []string{
	"id", "name", "title", "description", "type", "category",
	"price", "cost", "value", "amount", "quantity",
	"date", "time", "created", "updated", "timestamp",
	"status", "state", "enabled", "active", "visible",
	"user", "customer", "client", "account", "profile",
	"address", "location", "position", "coordinates",
	"settings", "config", "options", "preferences",
	"data", "content", "items", "elements", "records",
}

// KeyName returns the key for the field at position i (0-based) of a mapping.
// Every mapping uses the same names, so keys never collide within one mapping.
func KeyName(i int) string {
	if i >= 0 && i < len(keyVocabulary) {
		return keyVocabulary[i]
	}
	return "field" + strconv.Itoa(i+1)
}

// VocabularySize returns the number of named keys before the fieldN fallback.
func VocabularySize() int {
	return len(keyVocabulary)
}
