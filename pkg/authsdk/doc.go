/*
Package authsdk holds the wire types of the gatekeeper service, its typed
API error, and a Go client.

# SDKClient vs Session

SDKClient performs the public operations:

	client := authsdk.NewSDKClient("https://auth.example.com")

	out, err := client.Signup(ctx, authsdk.SignupRequest{Email: "a@b.com", Password: "12345678"})
	settings, err := client.GetSettings(ctx)

Session wraps a token pair and refreshes the access token shortly before
it expires:

	session, err := client.Authenticate(ctx, "a@b.com", "12345678")
	me, err := session.Me(ctx)
	roles, err := session.ListRoles(ctx)

# Errors

Every non-2xx response is returned as *APIError. Compare against the
predefined values with errors.Is; status and code are compared, the
message is not:

	if errors.Is(err, authsdk.ErrAccountSuspended) {
		// ...
	}

The server uses the same type: services return *APIError and the HTTP
layer writes it with WriteError.
*/
package authsdk
