// Package ridesclient provides the entry point for authenticating against
// the ride-hailing API and constructing a rides.Client.
//
// It wires the OAuth 2.0 grants, the token endpoint and the request pipeline
// on top of the types and interfaces defined in the rides package. Most
// applications obtain a *rides.Session from one of the grants, then pass it
// to New.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/rides/pkg/rides"
//	  "github.com/fivetwenty-io/rides/pkg/ridesclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Server token: read-only product and estimate calls.
//	  cli, err := ridesclient.NewWithServerToken("server-token", nil)
//	  if err != nil { log.Fatal(err) }
//
//	  // Or the authorization code flow on behalf of a rider.
//	  grant := ridesclient.NewAuthorizationCodeGrant(
//	    "client-id", "client-secret", "http://localhost:8000/callback",
//	    []string{"profile", "request"}, nil)
//
//	  authURL, err := grant.AuthorizationURL()
//	  if err != nil { log.Fatal(err) }
//	  _ = authURL // send the rider here, then read the redirect URL
//
//	  session, err := grant.Session(ctx, "http://localhost:8000/callback?code=...&state=...")
//	  if err != nil { log.Fatal(err) }
//
//	  cli, err = ridesclient.New(session, &rides.Config{Sandbox: true})
//	  if err != nil { log.Fatal(err) }
//
//	  products, _, err := cli.Products().List(ctx, 37.77, -122.41)
//	  if err != nil { log.Fatal(err) }
//	  _ = products
//	}
//
// # Sessions
//
// The client owns its session. Before every call a stale OAuth 2.0 session
// (one expiring within 500 seconds) is refreshed and replaces the old one;
// Config.OnSessionRefresh is told about each replacement so the credential
// can be persisted. Implicit grant sessions cannot be refreshed.
//
// # Helpers
//
// RefreshAccessToken and RevokeAccessToken operate on a bare credential
// without building a client.
package ridesclient
