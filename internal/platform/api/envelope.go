package api

// Response is the {success, ...} envelope every endpoint speaks. Payload
// fields ("data", "doctors", ...) are attached with With.
type Response map[string]interface{}

// OK returns a success envelope.
func OK() Response {
	return Response{"success": true}
}

// Fail returns a failure envelope carrying an operator-displayable message.
func Fail(message string) Response {
	return Response{"success": false, "message": message}
}

// With attaches a payload field and returns the envelope for chaining.
func (r Response) With(key string, value interface{}) Response {
	r[key] = value
	return r
}
