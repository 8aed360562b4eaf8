package usecase

import (
	"strings"

	validator "gopkg.in/go-playground/validator.v9"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// fieldRule is a validator tag chain plus the message shown for each tag.
type fieldRule struct {
	field    entity.Field
	tags     string
	messages map[string]string
}

var fieldRules = map[entity.Field]fieldRule{
	entity.FieldMarketAuthor: {
		field:    entity.FieldMarketAuthor,
		tags:     "required",
		messages: map[string]string{"required": "Please enter the plugin author"},
	},
	entity.FieldMarketName: {
		field:    entity.FieldMarketName,
		tags:     "required",
		messages: map[string]string{"required": "Please enter the plugin name"},
	},
	entity.FieldMarketVersion: {
		field:    entity.FieldMarketVersion,
		tags:     "required",
		messages: map[string]string{"required": "Please enter the version"},
	},
	entity.FieldGithubRepo: {
		field: entity.FieldGithubRepo,
		tags:  "required,contains=/",
		messages: map[string]string{
			"required": "Please enter the GitHub repository",
			"contains": "Repository format should be: owner/repository",
		},
	},
	entity.FieldGithubRelease: {
		field:    entity.FieldGithubRelease,
		tags:     "required",
		messages: map[string]string{"required": "Please enter the release"},
	},
	entity.FieldGithubAsset: {
		field: entity.FieldGithubAsset,
		tags:  "required,endswith=" + entity.PackageExtension,
		messages: map[string]string{
			"required": "Please enter the asset file name",
			"endswith": "Asset must be a " + entity.PackageExtension + " file",
		},
	},
}

// Validator checks the fields of the active mode and decorates them.
// Decorations replace earlier ones so re-validating never stacks messages.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// CheckField validates a single value and returns the user-facing message,
// or "" when the value is acceptable.
func (v *Validator) CheckField(field entity.Field, value string) string {
	rule, ok := fieldRules[field]
	if !ok {
		return ""
	}
	err := v.validate.Var(trim(value), rule.tags)
	if err == nil {
		return ""
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		if msg, ok := rule.messages[errs[0].Tag()]; ok {
			return msg
		}
	}
	return err.Error()
}

// ValidateField checks one field and records the decoration on state.
func (v *Validator) ValidateField(state *entity.FormState, field entity.Field, value string) bool {
	msg := v.CheckField(field, value)
	if state.Annotations == nil {
		state.Annotations = map[entity.Field]entity.FieldAnnotation{}
	}
	if msg != "" {
		state.Annotations[field] = entity.FieldAnnotation{Valid: false, Message: msg}
		return false
	}
	state.Annotations[field] = entity.FieldAnnotation{Valid: true}
	return true
}

// Validate checks every required field of the active mode.
func (v *Validator) Validate(state *entity.FormState) bool {
	switch state.Mode {
	case entity.ModeLocal:
		return v.ValidateLocal(state)
	case entity.ModeMarket:
		return v.ValidateMarket(state)
	case entity.ModeGithub:
		return v.ValidateGithub(state)
	}
	return false
}

func (v *Validator) ValidateLocal(state *entity.FormState) bool {
	if state.Annotations == nil {
		state.Annotations = map[entity.Field]entity.FieldAnnotation{}
	}
	if state.UploadedPath() == "" {
		state.Annotations[entity.FieldFile] = entity.FieldAnnotation{Valid: false, Message: ErrNoUploadedFile.Error()}
		return false
	}
	state.Annotations[entity.FieldFile] = entity.FieldAnnotation{Valid: true}
	return true
}

func (v *Validator) ValidateMarket(state *entity.FormState) bool {
	// Every field is checked so each gets its decoration.
	valid := v.ValidateField(state, entity.FieldMarketAuthor, state.Market.Author)
	valid = v.ValidateField(state, entity.FieldMarketName, state.Market.Name) && valid
	valid = v.ValidateField(state, entity.FieldMarketVersion, state.Market.Version) && valid
	return valid
}

func (v *Validator) ValidateGithub(state *entity.FormState) bool {
	valid := v.ValidateField(state, entity.FieldGithubRepo, state.Github.Repository)
	valid = v.ValidateField(state, entity.FieldGithubRelease, state.Github.Release) && valid
	valid = v.ValidateField(state, entity.FieldGithubAsset, state.Github.Asset) && valid
	return valid
}

func trim(value string) string {
	return strings.TrimSpace(value)
}
