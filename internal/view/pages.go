package view

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"signin-portal/internal/signin"
)

// SignUpForm is the view model of the sign-up page.
type SignUpForm struct {
	Email       string
	FieldErrors map[signin.Field]string
}

func SignUpPage(form SignUpForm) g.Node {
	return h.Section(
		h.Class("auth-card"),
		h.H1(g.Text("Create an account")),
		h.Form(
			h.Method("post"),
			h.Action(RouteSignUp),
			g.Attr("novalidate"),
			h.Div(
				h.Class("form-group"),
				h.Label(h.For("email"), g.Text("Email")),
				h.Input(h.Type("email"), h.ID("email"), h.Name("email"), h.Value(form.Email), g.Attr("autocomplete", "email")),
				fieldError("email-error", form.FieldErrors[signin.FieldEmail]),
			),
			h.Div(
				h.Class("form-group"),
				h.Label(h.For("password"), g.Text("Password")),
				h.Input(h.Type("password"), h.ID("password"), h.Name("password"), g.Attr("autocomplete", "new-password")),
				fieldError("password-error", form.FieldErrors[signin.FieldPassword]),
			),
			h.Button(h.Type("submit"), h.Class("btn btn-primary"), g.Text("Sign up")),
		),
		h.P(
			h.Class("auth-footer"),
			g.Text("Already registered? "),
			h.A(h.Href(RouteSignIn), g.Text("Sign in")),
		),
	)
}

// GalleryPage is the landing page after sign-in.
func GalleryPage(userID string) g.Node {
	return h.Section(
		h.Class("gallery"),
		h.Div(
			h.Class("gallery-header"),
			h.H1(g.Text("Gallery")),
			h.Form(
				h.Method("post"),
				h.Action(RouteLogout),
				h.Button(h.Type("submit"), h.Class("btn"), g.Text("Sign out")),
			),
		),
		h.P(h.Class("text-gray-500"), g.Textf("Signed in as %s", userID)),
		h.Div(h.ID("gallery-grid"), h.Class("grid")),
	)
}
