// Package oauth2client provides a client for making authenticated calls to
// the Moltin e-commerce API using the OAuth2 client-credentials grant.
//
// The client acquires a bearer token with the store's public and secret
// keys, caches it for at most 55 minutes (or until the server-reported
// expiry, whichever comes first), and shares a single token fetch between
// concurrent callers. Responses are decoded as JSON; a non-empty "errors"
// map is returned as an *APIError even when the status code is 2xx, and any
// other non-2xx status as an *HTTPError. The client never retries.
//
// Usage:
//
//	config := oauth2client.DefaultConfig()
//	config.PublicKey = "your_public_key"
//	config.SecretKey = "your_secret_key"
//	client, err := oauth2client.NewAPIClient(config)
//
//	// Make a GET request
//	doc, err := client.Get(ctx, "products", oauth2client.WithQuery(map[string]string{"limit": "5"}))
//
//	// Make a POST request
//	doc, err = client.Post(ctx, "carts/abc", map[string]interface{}{"id": "123", "quantity": 1})
//
//	// Place an order
//	doc, err = client.Checkout(ctx, models.CheckoutRequest{...})
package oauth2client
