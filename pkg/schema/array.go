package schema

import (
	"strconv"

	"github.com/arborvalid/jsonschema/pkg/validerr"
)

// ArrayNode implements the "maxItems", "minItems", "uniqueItems",
// "items", "additionalItems", and "contains" keywords, per spec §4.6.
type ArrayNode struct {
	HasMaxItems bool
	MaxItems    int
	HasMinItems bool
	MinItems    int
	UniqueItems bool

	// ItemsSchema is set when "items" was a single schema (or
	// boolean): every element is validated against it and
	// AdditionalItems is ignored, per spec §4.6.
	ItemsSchema Node

	// Items is set when "items" was an array of schemas (tuple
	// validation): the i-th element is checked against Items[i];
	// elements beyond len(Items) fall to AdditionalItems if set, else
	// are accepted.
	Items           []Node
	AdditionalItems Node

	Contains Node
}

func (a *ArrayNode) Validate(instance any, instanceLoc, keywordLoc string, sink validerr.Sink) {
	arr, ok := instance.([]any)
	if !ok {
		return
	}

	if a.HasMaxItems && len(arr) > a.MaxItems {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "maxItems"), "has too many items", instance)
	}
	if a.HasMinItems && len(arr) < a.MinItems {
		sink.Error(instanceLoc, appendLoc(keywordLoc, "minItems"), "has too few items", instance)
	}

	if a.UniqueItems {
		for i := 0; i < len(arr); i++ {
			for j := i + 1; j < len(arr); j++ {
				if DeepEqual(arr[i], arr[j]) {
					sink.Error(instanceLoc, appendLoc(keywordLoc, "uniqueItems"),
						"items have to be unique for this array", instance)
				}
			}
		}
	}

	if a.ItemsSchema != nil {
		for i, item := range arr {
			a.ItemsSchema.Validate(item, appendLoc(instanceLoc, strconv.Itoa(i)), appendLoc(keywordLoc, "items"), sink)
		}
	} else {
		for i, item := range arr {
			var itemValidator Node
			if i < len(a.Items) {
				itemValidator = a.Items[i]
			} else {
				itemValidator = a.AdditionalItems
			}
			if itemValidator == nil {
				break
			}
			itemLoc := appendLoc(instanceLoc, strconv.Itoa(i))
			var kwLoc string
			if i < len(a.Items) {
				kwLoc = appendLoc(appendLoc(keywordLoc, "items"), strconv.Itoa(i))
			} else {
				kwLoc = appendLoc(keywordLoc, "additionalItems")
			}
			itemValidator.Validate(item, itemLoc, kwLoc, sink)
		}
	}

	if a.Contains != nil {
		contained := false
		for _, item := range arr {
			scratch := &validerr.ScratchSink{}
			a.Contains.Validate(item, instanceLoc, appendLoc(keywordLoc, "contains"), scratch)
			if !scratch.Failed() {
				contained = true
				break
			}
		}
		if !contained {
			sink.Error(instanceLoc, appendLoc(keywordLoc, "contains"),
				"array does not contain required element as per 'contains'", instance)
		}
	}
}
