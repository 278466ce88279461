package model

// DefaultTemplate is the named fallback definition used when an activity
// has no stored form or the stored one fails to parse. It goes through the
// same constructors as any authored definition so the usual invariants
// hold.
func DefaultTemplate() Definition {
	name := NewField(FieldText, "Full Name")
	name.Required = true
	name.Placeholder = "Your full name"

	email := NewField(FieldEmail, "Email")
	email.Required = true
	email.Input.Unique = true

	phone := NewField(FieldPhone, "Phone Number")

	section := NewSection("Registration")
	section.Description = "Tell us who you are."
	section.Fields = []Field{name, email, phone}
	section.Navigation = Navigation{Type: NavSubmit}

	return Definition{Sections: []Section{section}}
}
