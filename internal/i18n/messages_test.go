package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintf_English(t *testing.T) {
	assert.Equal(t, "A 'Starter' kit was added to your account!", Sprintf("en", KitGiven, "Starter"))
	assert.Equal(t, "Alice just gifted you a 'VIP' kit, wow!", Sprintf("en", KitGiftGiven, "Alice", "VIP"))
	assert.Equal(t, "You just gifted Bob a 'VIP' kit!", Sprintf("en", KitGiftGiver, "Bob", "VIP"))
	assert.Equal(t,
		"You just gifted Bob a 'VIP' kit! Please take this 1000 RP for your generosity <3",
		Sprintf("en", KitGiftGiverReward, "Bob", "VIP", "1000 RP"))
	assert.Equal(t, "An unknown player", Sprintf("en", UnknownPlayer))
}

func TestSprintf_Portuguese(t *testing.T) {
	assert.Equal(t, "Um jogador desconhecido", Sprintf("pt-BR", UnknownPlayer))
}

func TestSprintf_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "An unknown player", Sprintf("", UnknownPlayer))
	assert.Equal(t, "An unknown player", Sprintf("xx-invalid-", UnknownPlayer))
	assert.Equal(t, "An unknown player", Sprintf("ja", UnknownPlayer))
}
