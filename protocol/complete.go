package protocol

// IsComplete reports whether statement ends with a terminating semicolon,
// ignoring string literals and comments. The client uses it to avoid sending
// half-typed statements; the server never rejects on completeness.
func IsComplete(statement string) bool {
	complete := false
	i := 0
	n := len(statement)
	for i < n {
		c := statement[i]
		switch {
		case c == ';':
			complete = true
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'' || c == '"':
			// Quoted literal; a doubled quote is an escaped quote.
			quote := c
			i++
			for i < n {
				if statement[i] == quote {
					if i+1 < n && statement[i+1] == quote {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			complete = false
		case c == '-' && i+1 < n && statement[i+1] == '-':
			for i < n && statement[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && statement[i+1] == '*':
			i += 2
			for i+1 < n && !(statement[i] == '*' && statement[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
			}
		default:
			complete = false
			i++
		}
	}
	return complete
}
