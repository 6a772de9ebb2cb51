package constants

// 通用错误消息，文案与前端保持一致
const (
	// 请求相关错误
	ErrInvalidRequest     = "Неверный запрос"
	ErrInvalidJSON        = "Некорректный JSON"
	ErrMissingAction      = "Не указано действие"
	ErrMethodNotSupported = "Метод не поддерживается"
	ErrUnknownAction      = "Неизвестное действие"

	// 认证相关错误
	ErrInvalidAdminCode     = "Неверный код"
	ErrOperationTooFrequent = "Слишком много попыток, попробуйте позже"

	// 参数相关错误
	ErrInvalidType           = "Неизвестный тип объявления"
	ErrMissingAnnouncementID = "Не указан announcement_id"
	ErrMissingResponseID     = "Не указан response_id"
	ErrMissingDonationID     = "Не указан donation_id"
	ErrMissingRequestID      = "Не указан request_id"
	ErrInvalidAmount         = "Сумма должна быть больше нуля"
	ErrRequiredFieldsMissing = "Заполните все поля"
	ErrInvalidRequestStatus  = "Неизвестный статус обращения"

	// 资源相关错误
	ErrAnnouncementNotFound = "Объявление не найдено"
	ErrDonationNotFound     = "Пожертвование не найдено"
	ErrRequestNotFound      = "Обращение не найдено"
)

// 成功消息
const (
	SuccessPaid     = "Объявление создано и оплачено"
	SuccessPending  = "Объявление создано и ожидает оплаты"
	SuccessLogout   = "Сессия завершена"
	SuccessDonation = "Спасибо за поддержку! Переведите %s₽ на карту Ozon %s"
	SuccessRequest  = "Обращение создано! Переведите %d₽ на карту Ozon %s или отсканируйте QR-код в форме"
)
