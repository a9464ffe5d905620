// Package assinafy is a client for the Assinafy document-signing API.
//
// A [Client] bundles the document, signer and workspace resources over one
// configured [client.Client]:
//
//	c, err := assinafy.NewClient(token, client.WithDefaultAccount(accountID))
//	if err != nil {
//		return err
//	}
//
//	doc, err := c.UploadDocument(ctx, f, "contract.pdf")
//
// Account-scoped calls use the default account unless [client.ForAccount]
// names another one. Failures are either detected before any request
// ([client.ErrMissingID], [client.ErrMissingAccount], [client.FieldErrors])
// or reported by the platform as a [*client.TransportError] or
// [*client.APIError].
package assinafy
