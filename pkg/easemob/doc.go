// Package easemob is a client for the EaseMob instant messaging REST API.
//
// A Client authenticates with the OAuth2 client_credentials grant, caches
// the access token in memory and sends every call through a single
// dispatcher that validates the verb, JSON-encodes the body and records
// the most recent response.
//
// # Quick Start
//
//	client, err := easemob.New(ctx, easemob.Config{
//	    ClientID:     "YXA6...",
//	    ClientSecret: "YXA6...",
//	    OrgName:      "acme",
//	    AppName:      "chat",
//	    ServerURL:    easemob.DefaultServerURL,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := client.UserDetails(ctx, "alice")
//
// # Tokens
//
// New fetches a token unless Config.Token is set. The token is never
// refreshed on its own; use ResetToken to force a new grant on the next
// call, or SetToken to install one obtained elsewhere. Config.OnTokenFetched
// is the hook for persisting fresh tokens.
//
// Concurrent calls on a client without a token share a single grant.
//
// # Results
//
// Boolean endpoints (Activate, AddMember, UpdateGroup, ...) return true only
// for HTTP 200. JSON endpoints decode the body whatever the status; check
// the embedded Envelope's Err method for EaseMob-reported failures.
//
// Errors are returned only when no usable response exists:
//
//   - *TransportError: the request produced no response
//   - ErrUnsupportedOperation: the verb is not one of Verbs
//   - ErrTokenResponseMalformed: the token endpoint omitted access_token
//   - *ResponseDecodeError: a JSON body could not be decoded
//   - *APIError: the token endpoint rejected the credentials
//
// # Raw Calls
//
// Dispatch reaches endpoints without a dedicated method:
//
//	resp, err := client.Dispatch(ctx, easemob.VerbGet, "chatgroups", nil)
//
// LastResponse returns the response of the most recent call, the token
// grant included.
package easemob
