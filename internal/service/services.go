package service

import (
	"github.com/dom/combat-tracker/internal/repository"
)

type Services struct {
	Character *CharacterService
}

func NewServices(repos *repository.Repositories, notifier ChangeNotifier) *Services {
	return &Services{
		Character: NewCharacterService(repos.Character, notifier),
	}
}
