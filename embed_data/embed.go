package embed_data

import "embed"

//go:embed prompts/inline_completion.tmpl
var InlineCompletionPrompt []byte

//go:embed prompts/multiline_completion.tmpl
var MultilineCompletionPrompt []byte

//go:embed prompts/documentation.tmpl
var DocumentationPrompt []byte

//go:embed prompts/explanation.tmpl
var ExplanationPrompt []byte

//go:embed prompts
var Prompts embed.FS
