package utils

import (
	"fmt"
	"net/url"
)

// DefaultAvatarURL retourne un avatar par défaut généré à partir des
// initiales de l'utilisateur (API DiceBear)
func DefaultAvatarURL(userName string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(userName))
}
