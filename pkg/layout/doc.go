/*
Package layout resolves step targets on a host surface and computes the
spotlight and tooltip geometry for them.

All computations are pure functions of the element bounds, the tooltip bounds
and the live viewport, which makes placement deterministic: the same inputs
always produce the same position.

# Placement

Explicit hints (top, bottom, left, right) put the tooltip DefaultGap pixels
away from the element and clamp it inside the viewport with ViewportMargin.
The auto hint tries bottom, then top, and falls back to a screen-centered
tooltip when neither fits.
*/
package layout
