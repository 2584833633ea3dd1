package improver

// SystemInstruction is sent with every request.
const SystemInstruction = "You are a helpful assistant that improves text grammar and clarity. " +
	"Your task is to fix grammar issues and make the text clearer without changing its meaning. " +
	"Preserve all original formatting including newlines, paragraphs, and spacing. " +
	"Only return the improved text without any explanations or additional text."

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

// BuildImprovePrompt wraps the selected text unchanged as the user message.
func BuildImprovePrompt(text string) Prompt {
	return Prompt{
		System: SystemInstruction,
		User:   text,
	}
}
