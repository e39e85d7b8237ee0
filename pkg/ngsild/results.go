package ngsild

import (
	"encoding/json"
)

type CreateEntityResult struct {
	location string
}

func NewCreateEntityResult(location string) *CreateEntityResult {
	return &CreateEntityResult{
		location: location,
	}
}

func (r CreateEntityResult) Location() string {
	return r.location
}

// MergeEntityResult holds the outcome of a merge. A broker answering with
// 207 Multi-Status lists the attributes it could not merge in NotUpdated.
type MergeEntityResult struct {
	Updated    []string `json:"updated"`
	NotUpdated []struct {
		AttributeName string `json:"attributeName"`
		Reason        string `json:"reason"`
	} `json:"notUpdated"`
}

func (mer *MergeEntityResult) IsMultiStatus() bool {
	return len(mer.NotUpdated) > 0
}

func NewMergeEntityResult(body []byte) (*MergeEntityResult, error) {
	mer := &MergeEntityResult{}
	if len(body) > 0 {
		err := json.Unmarshal(body, mer)
		if err != nil {
			return nil, err
		}
	}
	return mer, nil
}
