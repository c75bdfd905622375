// Package auth obtains a VK access token through the OAuth implicit flow.
//
// A real browser is opened via go-rod on the VK authorization page.
// Once the user grants access, VK redirects to its blank page with the token
// in the URL fragment, which is picked up by polling the page URL.
package auth
