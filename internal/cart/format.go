package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NamespaceKey is the fixed key the ledger is stored under in a client store.
const NamespaceKey = "trimstore.cart"

const formatVersion = 1

type document struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

func encode(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(document{Version: formatVersion, Items: items})
}

// decode accepts the versioned document and the bare array written before
// versioning existed (reported as version 0).
func decode(raw []byte) (int, []LineItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return formatVersion, []LineItem{}, nil
	}

	if raw[0] == '[' {
		var legacy []LineItem
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return 0, nil, err
		}
		return 0, migrateLegacy(legacy), nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, nil, err
	}
	if doc.Version > formatVersion {
		return 0, nil, fmt.Errorf("unsupported cart format version %d", doc.Version)
	}
	if doc.Items == nil {
		doc.Items = []LineItem{}
	}
	return doc.Version, doc.Items, nil
}

// migrateLegacy drops lines the old client could leave behind (no product,
// zero quantity) and folds repeated keys into the first occurrence.
func migrateLegacy(legacy []LineItem) []LineItem {
	out := make([]LineItem, 0, len(legacy))
	for _, it := range legacy {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
			continue
		}
		if i := indexOf(out, it.Key()); i >= 0 {
			out[i].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}
