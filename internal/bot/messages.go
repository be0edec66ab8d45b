package bot

const (
	msgProcessing     = "🔊 Обрабатываю аудио обращение..."
	msgDownloading    = "📥 Загружаю аудио..."
	msgFileError      = "❌ Не удалось получить аудио файл."
	msgDownloadError  = "❌ Ошибка при загрузке аудио."
	msgConverting     = "🔄 Конвертирую аудио..."
	msgConvertError   = "❌ Ошибка при конвертации аудио."
	msgRecognizing    = "🔍 Распознаю речь..."
	msgRecognizeError = "❌ Не удалось распознать речь. Попробуйте запись получше."
	msgAnalyzing      = "🤖 Анализирую обращение пациента..."
	msgAnalysisDone   = "✅ Анализ завершен!"
	msgGenericError   = "⚠️ Произошла ошибка при обработке. Попробуйте ещё раз."

	reportSeparator = "──────────────────────────────"
)

const welcomeText = `🩺 **Medical Assistant Voice Assistant**

Я помогу вам анализировать голосовые обращения пациентов.

**Как это работает:**
1. Пациент отправляет голосовое сообщение с жалобой/вопросом
2. Я распознаю речь через SaluteSpeech
3. Анализирую обращение через Groq AI
4. Предоставляю структурированный анализ

**Что я анализирую:**
• Тип обращения (симптомы, диагностика, лечение и т.д.)
• Основную проблему со здоровьем
• Медицинские детали
• Рекомендации для врача
• Дальнейшие шаги

**Отправьте голосовое сообщение или аудиофайл для анализа.**`

const helpText = `📋 **Инструкция по использованию:**

**Поддерживаемые форматы:**
• Голосовые сообщения Telegram
• Аудио файлы (OGG, MP3, WAV)
• Максимальная длительность: 5 минут

**Процесс обработки:**
1. Загрузка и конвертация аудио
2. Распознавание речи (SaluteSpeech)
3. Медицинский анализ (Groq AI)
4. Формирование отчета

**Качество распознавания зависит от:**
- Четкости речи
- Отсутствия фонового шума
- Качества записи

**Примеры обращений для анализа:**
• "У меня болит голова уже неделю"
• "Проблема с давлением после еды"
• "Как лечить простуду?"
• "Жалоба на аллергию после приема лекарства"

**Команды:**
/start - Начало работы
/help - Эта инструкция
/status - Статус сервисов`

const followUpText = `💡 **Дальнейшие действия:**
1. Свяжитесь с пациентом для уточнения деталей
2. Назначьте необходимые обследования
3. Рекомендуйте подходящие препараты
4. Запланируйте следующий прием

Хотите проанализировать ещё одно обращение? Просто отправьте голосовое сообщение!`
