// Package delivery wires the report builder, renderer and email transport into
// a runner.Deliverer.
//
// Mailer.Deliver builds the payload for the requested range, renders the full
// report and a short email body, and sends one email with the report attached
// as an HTML file.
//
// # Usage
//
//	builder, _ := report.NewBuilder(store)
//	mailer, err := delivery.NewMailer(builder, report.NewRenderer(), sender,
//	    delivery.WithLogger(log),
//	    delivery.WithClock(func() time.Time { return time.Now().In(loc) }),
//	)
//	if err != nil {
//	    return err
//	}
//	r, err := runner.New(store, mailer)
//
// # Error Handling
//
// Every failure joins runner.ErrDeliveryFailed with a stage sentinel
// (ErrBuildFailed, ErrRenderFailed or ErrSendFailed) and the underlying cause.
package delivery
