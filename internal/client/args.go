package client

// setString adds value under key unless it is empty.
func setString(args map[string]any, key, value string) {
	if value != "" {
		args[key] = value
	}
}

// setPtr adds *value under key unless value is nil.
func setPtr[T any](args map[string]any, key string, value *T) {
	if value != nil {
		args[key] = *value
	}
}
