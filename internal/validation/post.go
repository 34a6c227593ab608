package validation

// PostInput is a post payload after sanitization.
type PostInput struct {
	Title string
	Body  string
}

// NormalizePost strips markup from and trims both fields.
func NormalizePost(title, body string) PostInput {
	return PostInput{
		Title: SanitizePlainText(title),
		Body:  SanitizePlainText(body),
	}
}

// PostErrors checks both fields and aggregates every violation.
func PostErrors(in PostInput) []string {
	var errs []string
	if in.Title == "" {
		errs = append(errs, "You must provide a title.")
	}
	if in.Body == "" {
		errs = append(errs, "You must provide post content.")
	}
	return errs
}
