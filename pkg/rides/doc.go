// Package rides provides types, interfaces, and helpers for working with the
// ride-hailing HTTP API.
//
// # Overview
//
// The rides package defines the session model (Session, OAuth2Credential),
// the normalized Response, the error taxonomy, and the interfaces of the
// resource clients (ProductsClient, RidesClient, ...). A concrete client is
// built by the ridesclient package, which wires configuration, transport,
// and token refresh.
//
// Getting a session
//
//	grant := ridesclient.NewAuthorizationCodeGrant(clientID, clientSecret, redirectURL, []string{"profile"})
//	authURL, err := grant.AuthorizationURL()
//	if err != nil { log.Fatal(err) }
//	// send the user to authURL, then on the callback:
//	session, err := grant.Session(ctx, callbackURL)
//	if err != nil { log.Fatal(err) }
//
// Making calls
//
//	cli, err := ridesclient.New(session, &rides.Config{Sandbox: true})
//	if err != nil { log.Fatal(err) }
//	products, _, err := cli.Products().List(ctx, 37.77, -122.41)
//
// # Sessions
//
// A Session holds either a static server token or an OAuth 2.0 credential,
// never both. Sessions are immutable: when a client refreshes a stale
// credential it binds a new Session, which Client.Session returns.
//
// # Errors
//
// Failed calls return one of *IllegalStateError, *ClientError,
// *ServerError, *SurgeError or *UnknownHTTPError, all implementing APIError.
// Use errors.As or a type switch to branch on them:
//
//	var surge *rides.SurgeError
//	if errors.As(err, &surge) {
//	  // send the rider to surge.SurgeConfirmationHref, then retry with the
//	  // confirmation id
//	}
package rides
