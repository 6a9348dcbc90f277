package agent

import "context"

// Convenience entry points. Each is a thin wrapper over the conversation
// methods: attachments ride on the agent's history exactly as with
// ChatWithFiles, and every failure mode is the same.

// AddImage sends one image file with an optional prompt.
func (a *Agent) AddImage(ctx context.Context, path, prompt string) (Turn, error) {
	return a.ChatWithFiles(ctx, prompt, []string{path}, nil)
}

// AddImages sends multiple image files with an optional prompt.
func (a *Agent) AddImages(ctx context.Context, paths []string, prompt string) (Turn, error) {
	return a.ChatWithFiles(ctx, prompt, paths, nil)
}

// AddDocument sends one document file with an optional prompt.
func (a *Agent) AddDocument(ctx context.Context, path, prompt string) (Turn, error) {
	return a.ChatWithFiles(ctx, prompt, nil, []string{path})
}

// AddDocuments sends multiple document files with an optional prompt.
func (a *Agent) AddDocuments(ctx context.Context, paths []string, prompt string) (Turn, error) {
	return a.ChatWithFiles(ctx, prompt, nil, paths)
}

// AddMixedFiles sends files of any supported kind with an optional prompt,
// classifying each path as image or document by its extension.
func (a *Agent) AddMixedFiles(ctx context.Context, prompt string, paths []string) (Turn, error) {
	images, documents, err := SplitFiles(paths)
	if err != nil {
		return Turn{}, a.failOutsideTurn("Agent.AddMixedFiles", err)
	}
	return a.ChatWithFiles(ctx, prompt, images, documents)
}

// ReasoningAndResponse sends a text-only turn and returns the reasoning
// trace and the answer separately. The trace is nil when the model emitted
// none.
func (a *Agent) ReasoningAndResponse(ctx context.Context, prompt string) (*string, string, error) {
	turn, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, "", err
	}
	return turn.Reasoning, turn.Answer, nil
}

// ReasoningOnly sends a text-only turn and returns only the reasoning
// trace, nil when the model emitted none.
func (a *Agent) ReasoningOnly(ctx context.Context, prompt string) (*string, error) {
	reasoning, _, err := a.ReasoningAndResponse(ctx, prompt)
	return reasoning, err
}

// ResponseOnly sends a text-only turn and returns only the answer.
func (a *Agent) ResponseOnly(ctx context.Context, prompt string) (string, error) {
	_, answer, err := a.ReasoningAndResponse(ctx, prompt)
	return answer, err
}
