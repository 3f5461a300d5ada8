package dialog

import "cherdak-bot/internal/catalog"

const (
	cmdStart  = "/start"
	cmdExport = "/export"
)

// IsCommand reports whether text is a slash command the dialogue binds.
// Any other text starting with "/" is ordinary input.
func IsCommand(text string) bool {
	return text == cmdStart || text == cmdExport
}

const (
	textWelcome  = "Вас приветствует кальянный бот 'Чердак'"
	textUnknown  = "Я не понимаю эту команду. Пожалуйста, используйте меню."
	textLocation = "Наше местоположение: [Кальянная 'Чердак'](%s)"
	textFailure  = "❌ Не удалось выполнить операцию. Попробуйте позже."

	textNoAccess     = "У вас нет доступа к админ-панели"
	textAdminWelcome = "Добро пожаловать в админ-панель. Выберите действие:"
	textAdminExit    = "Вы вышли из админ-панели."
	textCancelled    = "Действие отменено."
	textBackToMenu   = "Вы вернулись в админ-панель. Выберите действие:"
	textChooseAction = "Пожалуйста, выберите действие из предложенных опций."

	textAskDetail       = "Введите описание товара:"
	textAskAvailability = "Товар в наличии?"
	textItemAdded       = "Товар успешно добавлен."

	textNoItems       = "😔 _Нет доступных позиций._"
	textChooseItem    = "📋 Выберите позицию для редактирования или удаления:"
	textInvalidChoice = "Неверный выбор. Попробуйте еще раз."
	textItemGone      = "Выбранная позиция больше не существует. Выберите другую:"
	textItemChosen    = "Вы выбрали %s. Что вы хотите сделать?"
	textInvalidAction = "Неверное действие. Пожалуйста, выберите *Редактировать* или *Удалить*."
	textItemDeleted   = "Позиция успешно удалена."

	textChooseDetail       = "Что вы хотите редактировать?"
	textInvalidDetail      = "Неверный выбор. Пожалуйста, выберите *Название*, *Описание* или *Статус наличия*."
	textAskNewName         = "Введите новое название:"
	textAskNewDetail       = "Введите новое описание:"
	textAskNewAvailability = "Выберите статус наличия:"

	textExportCaption = "📊 Каталог"
	textExportName    = "catalog.xlsx"
)

var askNameText = map[catalog.Category]string{
	catalog.Tobacco: "Введите название табака:",
	catalog.Tea:     "Введите название чая:",
}

var updatedText = map[catalog.Field]string{
	catalog.FieldName:      "Название успешно обновлено.",
	catalog.FieldDetail:    "Описание успешно обновлено.",
	catalog.FieldAvailable: "Статус наличия успешно обновлен.",
}

var catalogHeader = map[catalog.Category]string{
	catalog.Tobacco: "🍂 *Доступные сорта табака:*\n\n",
	catalog.Tea:     "🍵 *Доступные сорта чая:*\n\n",
}

var catalogEmpty = map[catalog.Category]string{
	catalog.Tobacco: "😔 _К сожалению, сейчас нет доступных сортов табака._",
	catalog.Tea:     "😔 _К сожалению, весь чай выпит, но мы скоро завезем еще!_ 😉",
}
