package filter

// Find returns the schema reached by following keyPath through nested
// children.
func Find(keyPath []string, schemas []Schema) (*Schema, bool) {
	if len(keyPath) == 0 || len(schemas) == 0 {
		return nil, false
	}
	for i := range schemas {
		if schemas[i].Key != keyPath[0] {
			continue
		}
		if len(keyPath) == 1 {
			return &schemas[i], true
		}
		return Find(keyPath[1:], schemas[i].Children)
	}
	return nil, false
}

// FindByPayloadKey searches schemas depth-first for payloadKey.
func FindByPayloadKey(payloadKey string, schemas []Schema) (*Schema, bool) {
	for i := range schemas {
		if schemas[i].PayloadKey == payloadKey {
			return &schemas[i], true
		}
		if s, ok := FindByPayloadKey(payloadKey, schemas[i].Children); ok {
			return s, true
		}
	}
	return nil, false
}
