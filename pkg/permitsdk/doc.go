/*
Package permitsdk is a Go client for the permits service HTTP API.

# Sessions

The service authenticates browsers and tools with an HttpOnly session cookie.
A Client keeps that cookie in its own cookie jar, so one Client is one
session:

	client, err := permitsdk.NewClient("https://permits.example.com")
	if err != nil {
		return err
	}

	user, err := client.Login(ctx, "coord@example.com", password)

# CSRF

Every state-changing request must carry the session's CSRF token in the
X-CSRF-Token header. Call FetchCSRFToken once after Login; the client
remembers the token and sends it on POST and DELETE calls:

	if _, err := client.FetchCSRFToken(ctx); err != nil {
		return err
	}

	doc, err := client.UploadDocument(ctx, permitsdk.UploadRequest{
		FileName:    "site-plan.pdf",
		ContentType: "application/pdf",
		Content:     f,
		Category:    "SITE_PLAN",
	})

# Errors

Non-2xx responses are returned as *apperr.Error, so callers can match on the
same sentinels the server uses:

	if errors.Is(err, apperr.ErrAuthorization) {
		// the role does not grant documents:write
	}
*/
package permitsdk
