package bot

// Chat commands understood in the verified state.
const (
	cmdStart  = "/start"
	cmdGoals  = "/goals"
	cmdCreate = "/create"
	cmdCancel = "/cancel"
)

// Fixed bot message catalog. The strings are part of the bot's contract with
// its users and tests and must not be reworded.
const (
	msgGreetingNew          = "Привет! Я Telegram бот проекта \"TodoList\"\n"
	msgGreetingReturning    = "С возвращением!\n"
	msgVerificationRequired = "Для продолжения необходимо пройти верификацию."
	msgAllowedCommands      = "Для продолжения отправьте одну из команд:\n" +
		"/goals - просмотреть все цели;\n" +
		"/create - создать цель;\n" +
		"/cancel - отменить создание цели."
	msgUnknownCommand     = "[unknown command]\n"
	msgSelectCategory     = "Отправьте название категории, в которой будет создана цель:\n"
	msgGoalTitle          = "Отправьте название цели."
	msgSuccessful         = "[successful]"
	msgFailure            = "[failure]"
	msgCategoriesNotFound = "[categories not found]"
	msgGoalsNotFound      = "[goals not found]"
)

func isAllowedCommand(text string) bool {
	switch text {
	case cmdStart, cmdGoals, cmdCreate, cmdCancel:
		return true
	}
	return false
}
