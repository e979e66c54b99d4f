// Package registry хранит список авто-реакций: кому из пользователей
// бот ставит какую реакцию.
//
// Состояние живёт в памяти и целиком перезаписывается в JSON-файл при
// каждом Set/Unset:
//
//	{
//	    "111": {
//	        "emoji": "🔥",
//	        "set_by": 361069640962801664
//	    }
//	}
//
// Load никогда не падает: нет файла или он битый — значит реестр пуст.
// Неизвестные поля в записях игнорируются.
package registry
