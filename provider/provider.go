// Package provider implements the slug backends: the OpenAI completion API and
// the metered proxy service.
package provider

import "github.com/ZaguanLabs/slugai"

// TranslationRequest is an alias to the main package type.
type TranslationRequest = slugai.TranslationRequest

// KeyStatus is an alias to the main package type.
type KeyStatus = slugai.KeyStatus
