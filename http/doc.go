// Package http provides the HTML front end of the galleria image gallery.
//
// The router serves a login form, a paginated 3x3 gallery, upload and delete
// forms, and the stored canonical PNG files. Sessions are carried in a signed
// cookie; requests without a valid session are redirected to the login page.
//
// # Routes
//
//	GET  /           redirect to /main or /login
//	GET  /login      login form
//	POST /login      check credentials, set session cookie
//	GET  /logout     clear session cookie
//	GET  /main       gallery page (?page=N)          session required
//	POST /upload     multipart field "image"          session required
//	POST /delete     repeated field "delete_ids"      session required
//	GET  /{id}.png   stored image
//
// Any other path, and any image id that is malformed or not stored, gets a
// redirect to a random decoy site with Referrer-Policy: no-referrer.
//
// # Usage
//
//	codec := galleria.NewSessionCodec(secret, salt, 5*time.Minute)
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Credentials: galleria.Credentials{Username: "admin", Password: "pw"},
//	    Tokens:      codec,
//	    Cookie:      http.CookieConfig{Name: "galleria_session", TTL: codec.TTL()},
//	}, service)
//	http.ListenAndServe(":3001", handler.Router())
//
// The service parameter must implement the Service interface with Ingest,
// ListPage, Delete and Open methods. *galleria.GalleryService does.
package http
