package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/havelockadmin/internal/client/session"
)

// Маршруты экранов
const (
	RouteHome           = "/"
	RouteLogin          = "/login"
	RouteForgotPassword = "/forgot-password"
	RouteVerifyOTP      = "/verify-otp"
	RouteResetPassword  = "/reset-password"

	RouteDashboard = "/dashboard"
	RouteBookings  = "/dashboard/booking"
	RouteRevenue   = "/dashboard/revenue"
	RouteEvents    = "/dashboard/my-events"
	RouteAddEvent  = "/dashboard/my-events/add-event"
	RouteEditEvent = "/dashboard/my-events/edit-event"
	RouteVideos    = "/dashboard/videos"
	RouteAddVideo  = "/dashboard/videos/add-video"
	RouteSettings  = "/dashboard/setting"
)

// Protected сообщает, нужна ли маршруту сессия
func Protected(route string) bool {
	return route == RouteDashboard || strings.HasPrefix(route, RouteDashboard+"/")
}

// Decision - итог проверки маршрута
type Decision struct {
	// Route - куда в итоге попадает пользователь
	Route string
	// Redirect - Route отличается от запрошенного
	Redirect bool
	// Wait - сессия еще загружается, ничего не рендерим
	Wait bool
}

// Guard решает, можно ли показать route в состоянии state
func Guard(state session.State, route string) Decision {
	if state == session.StateLoading {
		return Decision{Route: route, Wait: true}
	}

	authenticated := state == session.StateAuthenticated
	switch {
	case route == RouteHome && authenticated:
		return redirect(RouteDashboard)
	case route == RouteHome:
		return redirect(RouteLogin)
	case !authenticated && Protected(route):
		return redirect(RouteLogin)
	case authenticated && route == RouteLogin:
		return redirect(RouteDashboard)
	}
	return Decision{Route: route}
}

func redirect(to string) Decision {
	return Decision{Route: to, Redirect: true}
}

// RedirectError - экран не показан, пользователь перенаправлен
type RedirectError struct {
	From string
	To   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirected from %s to %s", e.From, e.To)
}

// SessionSource - то, что навигатору нужно от провайдера сессии
type SessionSource interface {
	Session(ctx context.Context) (*session.Session, error)
	State() session.State
}

// Navigator проверяет маршруты, дожидаясь окончания загрузки сессии
type Navigator struct {
	sessions SessionSource
}

// NewNavigator создает навигатор
func NewNavigator(sessions SessionSource) *Navigator {
	return &Navigator{sessions: sessions}
}

// Enter дожидается сессии и возвращает итоговый маршрут.
// Если route недоступен, возвращает *RedirectError с маршрутом назначения.
func (n *Navigator) Enter(ctx context.Context, route string) (string, error) {
	if _, err := n.sessions.Session(ctx); err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	d := Guard(n.sessions.State(), route)
	if d.Redirect {
		return d.Route, &RedirectError{From: route, To: d.Route}
	}
	return d.Route, nil
}
