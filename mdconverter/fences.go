package mdconverter

// adfFenceTypes is the set of fence languages reclassified from generic code
// blocks into ADF container nodes before structural building.
var adfFenceTypes = map[string]bool{
	"panel":        true,
	"expand":       true,
	"nestedExpand": true,
	"mediaSingle":  true,
	"mediaGroup":   true,
}

// fenceAttrKey maps a fence-header key to the ADF attribute it stands for.
// Panels write their panelType as the canonical type=... token.
func fenceAttrKey(fenceType, key string) string {
	if fenceType == "panel" && key == "type" {
		return "panelType"
	}
	return key
}

// buildFenceAttrs parses a fence attribute string and renames canonical
// header keys to their ADF attribute names.
func buildFenceAttrs(fenceType, attrString string) map[string]interface{} {
	parsed := parseFenceAttrs(attrString)
	if len(parsed) == 0 {
		return nil
	}
	attrs := make(map[string]interface{}, len(parsed))
	for key, value := range parsed {
		attrs[fenceAttrKey(fenceType, key)] = value
	}
	return attrs
}
