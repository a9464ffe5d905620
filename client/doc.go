// Package client is the shared transport behind the Assinafy resources.
//
// # Building a Client
//
// Use [Build] with functional options:
//
//	c, err := client.Build(
//		client.WithToken(os.Getenv("ASSINAFY_TOKEN")),
//		client.WithDefaultAccount("acc-123"),
//		client.WithTimeout(30 * time.Second),
//	)
//
// # Making Requests
//
// Resolve a resource path with [Client.URL], build the request with
// [Request], then execute it with [Client.Do]. Responses wrapped in the
// platform's {status, data, message} envelope are unwrapped before decoding:
//
//	u := c.URL(client.Path("documents", id))
//	req, err := client.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, client.WithDestination(&doc))
//
// A non-2xx response is reported as a *[TransportError]; a 2xx response whose
// envelope status signals failure as an *[APIError].
//
// # Accounts
//
// Account-scoped calls resolve their account with [Client.ResolveAccount]:
// a [ForAccount] call option wins over [WithDefaultAccount].
//
// # Downloading Files
//
// Signed artifacts can be streamed to disk with [Client.Download], see the
// [github.com/adamwoolhether/assinafy/client/download] package.
package client
