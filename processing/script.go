package processing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// maxScriptChars caps how much of the screenplay is sent to the model, to
// respect the downstream token budget. Content past the cap is silently never
// seen by the model, so very long scripts produce partial breakdowns. Known
// limitation.
const maxScriptChars = 30000

// Analysis failure classes. The caller decides whether to prompt a retry;
// nothing here is retried automatically.
var (
	ErrNotConfigured  = errors.New("OPENAI_API_KEY environment variable not set")
	ErrRateLimited    = errors.New("AI service is rate limited")
	ErrQuotaExhausted = errors.New("AI service quota exhausted")
	ErrParse          = errors.New("invalid response format from AI")
)

// SceneRecord is one scene extracted from a screenplay.
type SceneRecord struct {
	SceneNumber       int    `json:"scene_number" jsonschema_description:"Sequential scene number starting at 1"`
	Heading           string `json:"heading" jsonschema_description:"Brief scene heading"`
	LocationType      string `json:"location_type" jsonschema_description:"INT or EXT"`
	SpecificLocation  string `json:"specific_location" jsonschema_description:"Location name"`
	TimeOfDay         string `json:"time_of_day" jsonschema_description:"DAY, NIGHT, EVENING, etc"`
	CharactersPresent string `json:"characters_present" jsonschema_description:"Character names only"`
	SpeakingRoles     string `json:"speaking_roles" jsonschema_description:"Speaking character names"`
	Extras            string `json:"extras" jsonschema_description:"Extras description"`
	FunctionalProps   string `json:"functional_props" jsonschema_description:"Key props list"`
	DecorativeProps   string `json:"decorative_props" jsonschema_description:"Decorative items"`
	CameraMovement    string `json:"camera_movement" jsonschema_description:"Camera description"`
	Framing           string `json:"framing" jsonschema_description:"Shot framing"`
	Lighting          string `json:"lighting" jsonschema_description:"Lighting description"`
	LightingMood      string `json:"lighting_mood" jsonschema_description:"Lighting mood"`
	DiegeticSounds    string `json:"diegetic_sounds" jsonschema_description:"Sounds heard within the scene"`
	SceneMood         string `json:"scene_mood" jsonschema_description:"Emotional mood"`
	EmotionalArc      string `json:"emotional_arc" jsonschema_description:"Emotion progression"`
	PrimaryAction     string `json:"primary_action" jsonschema_description:"Main action"`
	Pacing            string `json:"pacing" jsonschema_description:"Scene pacing"`
	ShootType         string `json:"shoot_type" jsonschema_description:"interior/exterior/etc"`
	Content           string `json:"content" jsonschema_description:"Scene dialogue and action, single quotes only"`
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	// Structured Outputs uses a subset of JSON schema
	// These flags are necessary to comply with the subset
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

var sceneRecordSchema = GenerateSchema[SceneRecord]()

// Analyzer breaks a screenplay down into scene records via a single
// chat-completion call. No retries, no streaming.
type Analyzer struct {
	client openai.Client
	model  openai.ChatModel
}

// NewAnalyzer builds an Analyzer from the environment. A missing credential is
// a configuration error surfaced to the caller.
func NewAnalyzer() (*Analyzer, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	model := openai.ChatModel(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	return &Analyzer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

const systemPrompt = `You are a film production script analyst.
CRITICAL INSTRUCTIONS:
1. Return ONLY a valid JSON array - no explanations, no markdown, no code blocks
2. Keep ALL field values SHORT (max 80 characters each)
3. Replace double quotes in content with single quotes
4. Be concise and direct`

// AnalyzeScript sends the screenplay to the model and parses the returned
// JSON scene array.
func (a *Analyzer) AnalyzeScript(ctx context.Context, scriptText string) ([]SceneRecord, error) {
	schemaJSON, err := json.Marshal(sceneRecordSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene schema: %w", err)
	}

	prompt := fmt.Sprintf(`SCRIPT TO ANALYZE:
%s

Return a JSON array where each element describes one scene and conforms to this schema:
%s`, truncateScript(scriptText), schemaJSON)

	chatCompletion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       a.model,
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case 429:
				return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
			case 402:
				return nil, fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
			}
		}
		return nil, fmt.Errorf("AI service request failed: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response from AI", ErrParse)
	}

	return parseScenes(chatCompletion.Choices[0].Message.Content)
}

// truncateScript limits the screenplay to the first maxScriptChars characters.
func truncateScript(scriptText string) string {
	if len(scriptText) > maxScriptChars {
		return scriptText[:maxScriptChars]
	}
	return scriptText
}

var (
	leadingFence  = regexp.MustCompile("(?i)^```json\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// stripFences removes leading/trailing markdown code-fence markers the model
// sometimes wraps around its output.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = leadingFence.ReplaceAllString(raw, "")
	raw = strings.TrimPrefix(raw, "```")
	raw = trailingFence.ReplaceAllString(raw, "")
	return strings.TrimSpace(raw)
}

// parseScenes parses the model output as a JSON scene array.
func parseScenes(raw string) ([]SceneRecord, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: no content returned from AI", ErrParse)
	}

	// Reject objects and scalars before decoding: the contract is an array.
	if !strings.HasPrefix(cleaned, "[") {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrParse)
	}

	var scenes []SceneRecord
	if err := json.Unmarshal([]byte(cleaned), &scenes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return scenes, nil
}
