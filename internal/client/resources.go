package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/http"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// ResourceClient implements outreach.ResourceClient for any resource type.
type ResourceClient struct {
	httpClient   *http.Client
	credentials  *outreach.Credentials
	resourceType string
}

// NewResourceClient creates a resource client bound to resourceType. The
// credentials pointer is shared, never copied.
func NewResourceClient(httpClient *http.Client, credentials *outreach.Credentials, resourceType string) *ResourceClient {
	return &ResourceClient{
		httpClient:   httpClient,
		credentials:  credentials,
		resourceType: resourceType,
	}
}

// Type implements outreach.ResourceClient.Type.
func (c *ResourceClient) Type() string {
	return c.resourceType
}

// List implements outreach.ResourceClient.List.
func (c *ResourceClient) List(ctx context.Context, params *outreach.QueryParams) (*outreach.ListResult, error) {
	err := c.checkCredentials()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, c.collectionPath(), params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.resourceType, err)
	}

	doc, err := decodeDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", c.resourceType, err)
	}

	result := &outreach.ListResult{
		Included: doc.Included,
		Links:    doc.Links,
		Meta:     doc.Meta,
	}

	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("parsing %s list response: %w: data is not an array", c.resourceType, outreach.ErrUnexpectedDocument)
	}

	err = json.Unmarshal(data, &result.Data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", c.resourceType, err)
	}

	return result, nil
}

// Get implements outreach.ResourceClient.Get. Filters and sort of params are
// not sent for a single resource.
func (c *ResourceClient) Get(ctx context.Context, id outreach.ResourceID, params *outreach.QueryParams) (*outreach.Result, error) {
	err := c.checkCredentials()
	if err != nil {
		return nil, err
	}

	if id == "" {
		return nil, outreach.ErrIDRequired
	}

	resp, err := c.httpClient.Get(ctx, c.resourcePath(id), params.SingleResourceValues())
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", c.resourceType, id, err)
	}

	result, err := decodeSingle(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.resourceType, err)
	}

	return result, nil
}

// Create implements outreach.ResourceClient.Create.
func (c *ResourceClient) Create(ctx context.Context, attributes map[string]any, relationships map[string]outreach.Relationship) (*outreach.Resource, error) {
	err := c.checkCredentials()
	if err != nil {
		return nil, err
	}

	if len(attributes) == 0 {
		return nil, outreach.ErrAttributesRequired
	}

	request := &outreach.RequestDocument{
		Data: outreach.ResourceObject{
			Type:          c.resourceType,
			Attributes:    attributes,
			Relationships: relationships,
		},
	}

	resp, err := c.httpClient.Post(ctx, c.collectionPath(), request)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.resourceType, err)
	}

	result, err := decodeSingle(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.resourceType, err)
	}

	return &result.Data, nil
}

// Update implements outreach.ResourceClient.Update. Only the supplied
// attributes and relationships are sent.
func (c *ResourceClient) Update(ctx context.Context, id outreach.ResourceID, attributes map[string]any, relationships map[string]outreach.Relationship) (*outreach.Resource, error) {
	err := c.checkCredentials()
	if err != nil {
		return nil, err
	}

	if id == "" {
		return nil, outreach.ErrIDRequired
	}

	if len(attributes) == 0 && len(relationships) == 0 {
		return nil, outreach.ErrNothingToUpdate
	}

	request := &outreach.RequestDocument{
		Data: outreach.ResourceObject{
			Type:          c.resourceType,
			ID:            id,
			Attributes:    attributes,
			Relationships: relationships,
		},
	}

	resp, err := c.httpClient.Patch(ctx, c.resourcePath(id), request)
	if err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", c.resourceType, id, err)
	}

	result, err := decodeSingle(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.resourceType, err)
	}

	return &result.Data, nil
}

// Delete implements outreach.ResourceClient.Delete.
func (c *ResourceClient) Delete(ctx context.Context, id outreach.ResourceID) error {
	err := c.checkCredentials()
	if err != nil {
		return err
	}

	if id == "" {
		return outreach.ErrIDRequired
	}

	_, err = c.httpClient.Delete(ctx, c.resourcePath(id))
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", c.resourceType, id, err)
	}

	return nil
}

func (c *ResourceClient) checkCredentials() error {
	if c.credentials == nil {
		return &outreach.AuthenticationError{Err: outreach.ErrCredentialsRequired}
	}

	if !c.credentials.Valid() {
		return &outreach.AuthenticationError{Err: outreach.ErrCredentialsInvalid}
	}

	return nil
}

func (c *ResourceClient) collectionPath() string {
	return "/" + url.PathEscape(c.resourceType)
}

func (c *ResourceClient) resourcePath(id outreach.ResourceID) string {
	return c.collectionPath() + "/" + url.PathEscape(id.String())
}

func decodeDocument(body []byte) (*outreach.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", outreach.ErrUnexpectedDocument)
	}

	var doc outreach.Document

	err := json.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return &doc, nil
}

func decodeSingle(body []byte) (*outreach.Result, error) {
	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: data is not an object", outreach.ErrUnexpectedDocument)
	}

	result := &outreach.Result{
		Included: doc.Included,
		Links:    doc.Links,
		Meta:     doc.Meta,
	}

	err = json.Unmarshal(data, &result.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding resource: %w", err)
	}

	return result, nil
}
