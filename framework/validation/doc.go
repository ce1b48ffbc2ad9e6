// Package validation checks flat string maps against pipe-separated rule
// strings. It is used to validate configuration loaded from the environment.
//
// # Basic Usage
//
//	v := validation.Make(map[string]string{
//	    "LOG_LEVEL": "verbose",
//	}, validation.Rules{
//	    "LOG_LEVEL": "required|in:debug,info,warn,error",
//	})
//
//	if err := v.Validate(); err != nil {
//	    // err is a *validation.Error with Bag map[string][]string
//	}
//
// # Available Rules
//
//   - required        field must be present and non-empty
//   - sometimes       skips the remaining rules silently if the field is empty
//   - numeric         parseable as float64
//   - bool            parseable by strconv.ParseBool
//   - min:n           minimum n UTF-8 characters
//   - max:n           maximum n UTF-8 characters
//   - in:a,b,c        value must be in the comma-separated list
//   - regex:pattern   must match the regexp pattern
//
// Rules are applied left to right and stop at the first failure for a field.
// An unknown rule name is reported as a failure.
package validation
