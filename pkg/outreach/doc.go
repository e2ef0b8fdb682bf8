// Package outreach provides types, interfaces, and helpers for working with the
// Outreach API v2.
//
// # Overview
//
// The API follows the JSON:API document convention: every resource has a type,
// an id, a map of attributes and a map of relationships. Rather than one client
// per resource type, the package defines a single ResourceClient interface
// bound to a resource type name. The concrete implementation is provided by the
// outreachclient package.
//
// # Credentials
//
// Credentials holds the OAuth2 token set. Reading it never touches the
// network; callers check Valid and call Refresh explicitly, then persist the
// result themselves (see Snapshot, ToJSON and MarshalJSON):
//
//	creds := outreach.NewCredentials(stored)
//	if !creds.Valid() {
//	  if err := creds.Refresh(ctx); err != nil { log.Fatal(err) }
//	  save(creds.Snapshot())
//	}
//
//	prospects, err := outreachclient.Resource("prospects", creds)
//	if err != nil { log.Fatal(err) }
//
//	list, err := prospects.List(ctx, outreach.NewQueryParams().
//	  WithFilter("firstName", "John").
//	  WithSort("-lastName"))
//
// # Queries
//
// QueryParams expresses the filter, sort, include and sparse fieldset options.
// Options left empty produce no query parameter at all. WithFieldPaths splits
// dotted paths such as "account.name" into per-type fieldsets.
//
// # Errors
//
// Failures are reported as *AuthenticationError (invalid credentials or a
// rejected refresh), *RequestError (a non-2xx answer from the API, carrying
// the decoded error document) or *TransportError (a failure below HTTP).
// Helpers such as IsNotFound, IsUnauthorized and IsAuthentication make it easy
// to branch on common cases. Nothing is retried.
package outreach
