package view

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"signin-portal/internal/signin"
)

// ProviderLink is one third-party sign-in option.
type ProviderLink struct {
	Name  string
	Label string
}

// SignInForm is the view model of the sign-in page.
type SignInForm struct {
	Snapshot  signin.Snapshot
	Providers []ProviderLink
}

// SignInPage renders the credential form. Third-party sign-in is a set
// of plain links outside the form, so it can never fire the form submit.
func SignInPage(form SignInForm) g.Node {
	snap := form.Snapshot
	return h.Section(
		h.Class("auth-card"),
		h.H1(g.Text("Sign in")),
		g.If(len(snap.FieldErrors) == 0, SubmissionStatus(snap.State)),
		h.Form(
			h.ID("signin-form"),
			h.Method("post"),
			h.Action(RouteSignIn),
			g.Attr("novalidate"),
			g.Attr("hx-disabled-elt", "find button[type=submit]"),
			EmailField(snap.Email, snap.FieldError(signin.FieldEmail)),
			PasswordField("", snap.PasswordVisible, snap.FieldError(signin.FieldPassword)),
			h.Button(
				h.Type("submit"),
				h.Class("btn btn-primary"),
				g.Text("Sign in"),
			),
		),
		g.If(len(form.Providers) > 0,
			h.Nav(
				h.Class("oauth-options"),
				g.Map(form.Providers, func(p ProviderLink) g.Node {
					return h.A(
						h.Class("btn btn-oauth"),
						h.Href(RouteOAuthLogin+p.Name),
						g.Text("Continue with "+p.Label),
					)
				}),
			),
		),
		h.P(
			h.Class("auth-footer"),
			g.Text("Don't have an account? "),
			h.A(h.Href(RouteSignUp), g.Text("Sign up")),
		),
	)
}

// SubmissionStatus renders the loading affordance or the last failure.
func SubmissionStatus(s signin.State) g.Node {
	switch s.Phase {
	case signin.Submitting:
		return h.Div(h.ID("submission-status"), h.Class("loading"), g.Attr("role", "status"), g.Text("Signing in…"))
	case signin.Failed:
		return h.Div(h.ID("submission-status"), h.Class("alert alert-error"), g.Attr("role", "alert"), g.Text(s.Message))
	default:
		return nil
	}
}

// EmailField is swapped in place after blur validation.
func EmailField(value, errMsg string) g.Node {
	return h.Div(
		h.ID("email-field"),
		h.Class("form-group"),
		h.Label(h.For("email"), g.Text("Email")),
		h.Input(
			h.Type("email"),
			h.ID("email"),
			h.Name("email"),
			h.Value(value),
			g.Attr("autocomplete", "email"),
			hx.Post("/signin/validate/email"),
			hx.Trigger("blur"),
			hx.Target("#email-field"),
			hx.Swap("outerHTML"),
			g.If(errMsg != "", g.Attr("aria-invalid", "true")),
		),
		fieldError("email-error", errMsg),
	)
}

// PasswordField is swapped in place after blur validation and after a
// visibility toggle. value is only echoed back into fragment responses.
func PasswordField(value string, visible bool, errMsg string) g.Node {
	inputType, toggleLabel := "password", "Show"
	if visible {
		inputType, toggleLabel = "text", "Hide"
	}
	return h.Div(
		h.ID("password-field"),
		h.Class("form-group"),
		h.Label(h.For("password"), g.Text("Password")),
		h.Input(
			h.Type(inputType),
			h.ID("password"),
			h.Name("password"),
			g.If(value != "", h.Value(value)),
			g.Attr("autocomplete", "current-password"),
			hx.Post("/signin/validate/password"),
			hx.Trigger("blur"),
			hx.Target("#password-field"),
			hx.Swap("outerHTML"),
			g.If(errMsg != "", g.Attr("aria-invalid", "true")),
		),
		h.Button(
			h.Type("button"),
			h.Class("btn-toggle"),
			hx.Post("/signin/visibility"),
			hx.Include("#password"),
			hx.Target("#password-field"),
			hx.Swap("outerHTML"),
			g.Text(toggleLabel),
		),
		fieldError("password-error", errMsg),
	)
}

func fieldError(id, msg string) g.Node {
	if msg == "" {
		return nil
	}
	return h.P(h.ID(id), h.Class("field-error"), g.Text(msg))
}
