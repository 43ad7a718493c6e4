package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type MessageID string

const (
	ResetLinkSent            MessageID = "resetLinkSent"
	PasswordResetSuccess     MessageID = "passwordResetSuccess"
	PasswordChanged          MessageID = "passwordChanged"
	InvalidEmail             MessageID = "invalidEmail"
	InvalidPhone             MessageID = "invalidPhone"
	EmailOrPhoneRequired     MessageID = "emailOrPhoneRequired"
	TokenAndPasswordRequired MessageID = "tokenAndPasswordRequired"
	PasswordTooShort         MessageID = "passwordTooShort"
	InvalidResetToken        MessageID = "invalidResetToken"
	ResetTokenExpired        MessageID = "resetTokenExpired"
	UserAlreadyExists        MessageID = "userAlreadyExists"
	AccountCreated           MessageID = "accountCreated"
	InvalidCredentials       MessageID = "invalidCredentials"
	Unauthorized             MessageID = "unauthorized"
	SignedIn                 MessageID = "signedIn"
	ProviderNotFound         MessageID = "providerNotFound"
	OAuthFailed              MessageID = "oauthFailed"
	OAuthAccountNotLinked    MessageID = "oauthAccountNotLinked"
	OTPNotAvailable          MessageID = "otpNotAvailable"
	InvalidRequest           MessageID = "invalidRequest"
	RateLimitExceeded        MessageID = "rateLimitExceeded"
	InternalError            MessageID = "internalError"
)

var (
	English = language.English
	Arabic  = language.Arabic
)

var supported = []language.Tag{English, Arabic}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[MessageID]string{
	English: {
		ResetLinkSent:            "If an account exists, a password reset link has been sent to your email",
		PasswordResetSuccess:     "Password has been reset successfully. You can now sign in with your new password.",
		PasswordChanged:          "Password has been changed successfully",
		InvalidEmail:             "Valid email is required",
		InvalidPhone:             "Invalid phone format",
		EmailOrPhoneRequired:     "Email or phone, and password are required",
		TokenAndPasswordRequired: "Token and password are required",
		PasswordTooShort:         "Password must be at least 8 characters long",
		InvalidResetToken:        "Invalid or expired reset token",
		ResetTokenExpired:        "Reset token has expired",
		UserAlreadyExists:        "User already exists with this email or phone",
		AccountCreated:           "Account created successfully. You can now sign in.",
		InvalidCredentials:       "Invalid email, phone or password",
		Unauthorized:             "Authentication required",
		SignedIn:                 "Signed in successfully",
		ProviderNotFound:         "Sign in provider is not available",
		OAuthFailed:              "Something went wrong while trying to sign in. Please try again or contact support.",
		OAuthAccountNotLinked:    "An account with this email already exists. Sign in with your password instead.",
		OTPNotAvailable:          "Phone sign in is not available yet",
		InvalidRequest:           "Invalid request",
		RateLimitExceeded:        "Too many requests. Please try again later.",
		InternalError:            "An error occurred. Please try again.",
	},
	Arabic: {
		ResetLinkSent:            "إذا كان الحساب موجودًا، فقد تم إرسال رابط إعادة تعيين كلمة المرور إلى بريدك الإلكتروني",
		PasswordResetSuccess:     "تمت إعادة تعيين كلمة المرور بنجاح. يمكنك الآن تسجيل الدخول بكلمة المرور الجديدة.",
		PasswordChanged:          "تم تغيير كلمة المرور بنجاح",
		InvalidEmail:             "يلزم إدخال بريد إلكتروني صالح",
		InvalidPhone:             "صيغة رقم الهاتف غير صحيحة",
		EmailOrPhoneRequired:     "البريد الإلكتروني أو الهاتف وكلمة المرور مطلوبة",
		TokenAndPasswordRequired: "الرمز وكلمة المرور مطلوبان",
		PasswordTooShort:         "يجب أن تكون كلمة المرور 8 أحرف على الأقل",
		InvalidResetToken:        "رمز إعادة التعيين غير صالح أو منتهي الصلاحية",
		ResetTokenExpired:        "انتهت صلاحية رمز إعادة التعيين",
		UserAlreadyExists:        "يوجد مستخدم بهذا البريد الإلكتروني أو الهاتف بالفعل",
		AccountCreated:           "تم إنشاء الحساب بنجاح. يمكنك الآن تسجيل الدخول.",
		InvalidCredentials:       "البريد الإلكتروني أو الهاتف أو كلمة المرور غير صحيحة",
		Unauthorized:             "يلزم تسجيل الدخول",
		SignedIn:                 "تم تسجيل الدخول بنجاح",
		ProviderNotFound:         "مزود تسجيل الدخول غير متاح",
		OAuthFailed:              "وقعت مشكلة أثناء محاولة الدخول. الرجاء المحاولة مرة أخرى أو التواصل مع الدعم.",
		OAuthAccountNotLinked:    "يوجد حساب بهذا البريد الإلكتروني بالفعل. الرجاء تسجيل الدخول بكلمة المرور.",
		OTPNotAvailable:          "تسجيل الدخول بالهاتف غير متاح حاليًا",
		InvalidRequest:           "طلب غير صالح",
		RateLimitExceeded:        "طلبات كثيرة جدًا. الرجاء المحاولة لاحقًا.",
		InternalError:            "حدث خطأ. الرجاء المحاولة مرة أخرى.",
	},
}

var printerCatalog = newCatalog()

func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(English))
	for tag, translations := range messages {
		for id, text := range translations {
			if err := builder.SetString(tag, string(id), text); err != nil {
				panic(err)
			}
		}
	}
	return builder
}

// Translate returns the message in the given language, falling back to English.
func Translate(tag language.Tag, id MessageID) string {
	return message.NewPrinter(tag, message.Catalog(printerCatalog)).Sprintf(string(id))
}

// Match picks the supported language closest to the preferences, in order.
// Each preference may be a plain tag or an Accept-Language header value.
func Match(preferences ...string) language.Tag {
	for _, preference := range preferences {
		if preference == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(preference)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, index, confidence := matcher.Match(tags...)
		if confidence != language.No {
			return supported[index]
		}
	}
	return English
}

type contextKey struct{}

func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, contextKey{}, tag)
}

func FromContext(ctx context.Context) language.Tag {
	tag, ok := ctx.Value(contextKey{}).(language.Tag)
	if !ok {
		return English
	}
	return tag
}

func T(ctx context.Context, id MessageID) string {
	return Translate(FromContext(ctx), id)
}

const (
	QueryParameter = "lang"
	CookieName     = "lang"
)

// Middleware resolves the request language from the lang query parameter,
// the lang cookie and the Accept-Language header, in that order.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cookieValue string
		if cookie, err := r.Cookie(CookieName); err == nil {
			cookieValue = cookie.Value
		}
		tag := Match(r.URL.Query().Get(QueryParameter), cookieValue, r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), tag)))
	})
}
