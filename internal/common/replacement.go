// -----------------------------------------------------------------------
// Last Modified: Thursday, 15th October 2026 10:12:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

// Package common provides configuration, logging and version helpers for the runner.
//
// Configuration strings may reference keys with the {key-name} syntax. References
// are resolved after the TOML files are merged, from the keys directory, the [keys]
// table and UICONTROLS_KEY_* environment variables.
//
// Example:
//
//	[controls.upload]
//	endpoint = "{upload-host}/api/mapping/upload"
//
// Replacement is case-sensitive. Missing keys are logged and left in place.
package common

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/ternarybob/arbor"
)

// keyRefPattern matches {key-name} references in strings
var keyRefPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ReplaceKeyReferences replaces every {key-name} in input with its value from kvMap.
// Unknown references are left unchanged.
func ReplaceKeyReferences(input string, kvMap map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return keyRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		keyName := match[1 : len(match)-1]
		if value, exists := kvMap[keyName]; exists {
			return value
		}
		logger.Warn().
			Str("reference", match).
			Str("key", keyName).
			Msg("Unresolved key reference")
		return match
	})
}

// ReplaceInStruct walks a struct pointer and replaces {key-name} references in its
// string, []string and map[string]string fields, recursing into nested structs.
func ReplaceInStruct(v interface{}, kvMap map[string]string, logger arbor.ILogger) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("ReplaceInStruct requires a pointer, got %T", v)
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("ReplaceInStruct requires a struct pointer, got pointer to %v", val.Kind())
	}

	replaceInStructValue(val, "", kvMap, logger)
	return nil
}

func replaceInStructValue(val reflect.Value, path string, kvMap map[string]string, logger arbor.ILogger) {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		name := path + typ.Field(i).Name

		switch field.Kind() {
		case reflect.String:
			replaceValue(field, name, kvMap, logger)

		case reflect.Struct:
			replaceInStructValue(field, name+".", kvMap, logger)

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				replaceInStructValue(field.Elem(), name+".", kvMap, logger)
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					replaceValue(field.Index(j), fmt.Sprintf("%s[%d]", name, j), kvMap, logger)
				}
			}

		case reflect.Map:
			if field.Type().Key().Kind() != reflect.String || field.Type().Elem().Kind() != reflect.String {
				continue
			}
			iter := field.MapRange()
			for iter.Next() {
				oldValue := iter.Value().String()
				newValue := ReplaceKeyReferences(oldValue, kvMap, logger)
				if oldValue != newValue {
					field.SetMapIndex(iter.Key(), reflect.ValueOf(newValue).Convert(field.Type().Elem()))
					logger.Debug().Str("field", name).Str("key", iter.Key().String()).Msg("Replaced key reference")
				}
			}
		}
	}
}

func replaceValue(field reflect.Value, name string, kvMap map[string]string, logger arbor.ILogger) {
	oldValue := field.String()
	newValue := ReplaceKeyReferences(oldValue, kvMap, logger)
	if oldValue != newValue {
		field.SetString(newValue)
		logger.Debug().Str("field", name).Msg("Replaced key reference")
	}
}
