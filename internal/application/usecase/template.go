package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// AccountIDPlaceholder é o marcador substituído pelo account id real antes
// do registro da task definition.
const AccountIDPlaceholder = "{{ACCOUNT_ID}}"

// ResolveAccountID substitui todas as ocorrências do placeholder pelo account
// id nos templates JSON do diretório. A substituição é idempotente: um
// arquivo já resolvido não é reescrito.
func ResolveAccountID(templateDir, accountID string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(templateDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing templates in %s: %w", templateDir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", types.ErrNoTemplatesFound, templateDir)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}

		content := string(data)
		if !strings.Contains(content, AccountIDPlaceholder) {
			continue
		}

		resolved := strings.ReplaceAll(content, AccountIDPlaceholder, accountID)
		if err := os.WriteFile(path, []byte(resolved), 0o644); err != nil {
			return nil, fmt.Errorf("writing template %s: %w", path, err)
		}
	}

	return paths, nil
}

// LoadTemplate carrega e valida um template de task definition.
func LoadTemplate(path string) (entity.TaskDefinitionTemplate, error) {
	var tpl entity.TaskDefinitionTemplate

	data, err := os.ReadFile(path)
	if err != nil {
		return tpl, fmt.Errorf("reading template %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &tpl); err != nil {
		return tpl, fmt.Errorf("parsing template %s: %w", path, err)
	}

	if tpl.Family == "" {
		return tpl, fmt.Errorf("template %s: family is required", path)
	}
	if len(tpl.ContainerDefinitions) == 0 {
		return tpl, fmt.Errorf("template %s: at least one container definition is required", path)
	}
	if strings.Contains(tpl.ExecutionRoleArn, AccountIDPlaceholder) || strings.Contains(tpl.TaskRoleArn, AccountIDPlaceholder) {
		return tpl, fmt.Errorf("template %s: unresolved account id placeholder", path)
	}

	return tpl, nil
}
