// Package outreachclient provides the primary entry point for constructing
// Outreach API resource clients that implement outreach.ResourceClient.
//
// It layers configuration and the HTTP transport on top of the resource
// interfaces and types defined in the outreach package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
//	  "github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreachclient"
//	)
//
//	func example(creds *outreach.Credentials) {
//	  ctx := context.Background()
//
//	  // One resource against the public API:
//	  prospects, err := outreachclient.Resource("prospects", creds)
//	  if err != nil { log.Fatal(err) }
//
//	  // Or several resources sharing one configured client:
//	  cli, err := outreachclient.New(&outreach.Config{UserAgent: "crm-sync/1.0"}, creds)
//	  if err != nil { log.Fatal(err) }
//	  accounts, _ := cli.Resource("accounts")
//
//	  page, err := prospects.List(ctx, outreach.NewQueryParams().WithInclude("account"))
//	  if err != nil { log.Fatal(err) }
//	  _, _ = page, accounts
//	}
//
// All resource clients created from the same Credentials observe a refresh
// performed through any of them, or by the caller directly.
package outreachclient
