package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Asset is an externally-owned digital item as reported by the ledger.
// Ownership and identity live there; this service never writes to it.
type Asset struct {
	AssetID     string `json:"asset_id"`
	DisplayName string `json:"display_name"`
	ImageRef    string `json:"image_ref"`
}

type Source interface {
	ListOwned(ctx context.Context, owner string) ([]Asset, error)
}

// RPCSource lists owned assets from a Sui-compatible JSON-RPC endpoint,
// filtered to a single struct type.
type RPCSource struct {
	url        string
	structType string
	limit      int
	httpClient *http.Client
}

func NewRPCSource(url string, structType string, limit int) *RPCSource {
	return &RPCSource{
		url:        url,
		structType: structType,
		limit:      limit,
		httpClient: http.DefaultClient,
	}
}

type rpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	Id      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type ownedObject struct {
	Data struct {
		ObjectId string `json:"objectId"`
		Display  struct {
			Data map[string]string `json:"data"`
		} `json:"display"`
		Content struct {
			Fields map[string]any `json:"fields"`
		} `json:"content"`
	} `json:"data"`
}

type ownedObjectsResponse struct {
	Result struct {
		Data []ownedObject `json:"data"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *RPCSource) ListOwned(ctx context.Context, owner string) ([]Asset, error) {
	body, err := json.Marshal(rpcRequest{
		JsonRpc: "2.0",
		Id:      1,
		Method:  "suix_getOwnedObjects",
		Params: []any{
			owner,
			map[string]any{
				"filter":  map[string]string{"StructType": s.structType},
				"options": map[string]bool{"showContent": true, "showDisplay": true},
			},
			nil,
			s.limit,
		},
	})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger returned status %d", response.StatusCode)
	}

	var decoded ownedObjectsResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("ledger error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}

	owned := make([]Asset, 0, len(decoded.Result.Data))
	for _, object := range decoded.Result.Data {
		owned = append(owned, assetFromObject(object))
	}
	return owned, nil
}

func assetFromObject(object ownedObject) Asset {
	name := object.Data.Display.Data["name"]
	if name == "" {
		name = "Unnamed asset"
	}

	image := object.Data.Display.Data["image_url"]
	if image == "" {
		// Older assets carry the image in the content fields instead
		image, _ = object.Data.Content.Fields["url"].(string)
	}

	return Asset{
		AssetID:     object.Data.ObjectId,
		DisplayName: name,
		ImageRef:    image,
	}
}
