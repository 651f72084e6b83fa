package coordinator

import (
	"strings"

	"github.com/festwork/gala/pkg/models"
)

// NormalizeMessages returns a copy of msgs prepared for a generation call.
// Messages whose content is empty or whitespace are dropped, and when
// dropSystem is true system-role messages are dropped as well. The relative
// order of everything kept is preserved. Unknown roles pass through
// untouched; the generation layer decides what to do with them.
func NormalizeMessages(msgs []models.Message, dropSystem bool) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if dropSystem && m.Role == models.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}
