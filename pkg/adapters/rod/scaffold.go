package rod

// scaffoldJS installs window.__tourflow, the in-page half of the surface.
// It only draws what it is told; every layout decision is made in Go.
// Buttons queue actions that the host drains with Surface.Actions.
const scaffoldJS = `
(function () {
  if (window.__tourflow) return;

  function ensureStyles() {
    if (document.getElementById('tourflow-styles')) return;
    const style = document.createElement('style');
    style.id = 'tourflow-styles';
    style.textContent = [
      '.tourflow-overlay{position:fixed;inset:0;background:rgba(0,0,0,.5);z-index:9998;}',
      '.tourflow-spotlight{position:absolute;display:none;z-index:9999;border-radius:8px;box-shadow:0 0 0 9999px rgba(0,0,0,.5);pointer-events:none;transition:all .3s ease;}',
      '.tourflow-tooltip{position:absolute;z-index:10000;width:320px;max-width:90vw;padding:16px;border-radius:12px;background:#fff;color:#1f2937;font-family:system-ui,sans-serif;box-shadow:0 10px 40px rgba(0,0,0,.2);}',
      '.tourflow-tooltip-header{display:flex;justify-content:space-between;align-items:center;font-size:12px;color:#6b7280;}',
      '.tourflow-title{margin:8px 0 4px;font-size:16px;}',
      '.tourflow-content{margin:0 0 12px;font-size:14px;line-height:1.5;}',
      '.tourflow-actions{display:flex;justify-content:space-between;align-items:center;}',
      '.tourflow-btn{border:0;border-radius:6px;padding:6px 12px;cursor:pointer;}',
      '.tourflow-btn-primary{background:#6366f1;color:#fff;}',
      '.tourflow-btn-secondary{background:#f3f4f6;color:#374151;}',
      '.tourflow-dots{display:flex;gap:4px;}',
      '.tourflow-dot{width:6px;height:6px;border-radius:50%;background:#d1d5db;cursor:pointer;}',
      '.tourflow-dot.active{background:#6366f1;}',
    ].join('');
    document.head.appendChild(style);
  }

  const parts = {};
  const actions = [];
  const push = (a) => actions.push(a);

  function build(name) {
    const el = document.createElement('div');
    el.id = 'tourflow-' + name;
    el.className = 'tourflow-' + name;
    if (name === 'tooltip') {
      el.innerHTML =
        '<div class="tourflow-tooltip-header"><span class="tourflow-step-counter"></span>' +
        '<button class="tourflow-close" data-action="stop">&times;</button></div>' +
        '<h3 class="tourflow-title"></h3><p class="tourflow-content"></p>' +
        '<div class="tourflow-actions">' +
        '<button class="tourflow-btn tourflow-btn-secondary tourflow-prev" data-action="previous">Back</button>' +
        '<div class="tourflow-dots"></div>' +
        '<button class="tourflow-btn tourflow-btn-primary tourflow-next" data-action="next">Next</button>' +
        '</div>';
      el.addEventListener('click', (ev) => {
        const t = ev.target.closest('[data-action]');
        if (t && !t.disabled) push(t.getAttribute('data-action'));
      });
    }
    return el;
  }

  window.__tourflow = {
    mount(name) {
      ensureStyles();
      if (parts[name] && parts[name].isConnected) return null;
      parts[name] = build(name);
      document.body.appendChild(parts[name]);
      return null;
    },
    unmount(name) {
      if (parts[name]) parts[name].remove();
      delete parts[name];
      return null;
    },
    mounted(name) {
      return !!(parts[name] && parts[name].isConnected);
    },
    render(view) {
      const tip = parts.tooltip;
      if (!tip) throw new Error('tooltip is not mounted');
      tip.querySelector('.tourflow-step-counter').textContent = view.counter;
      tip.querySelector('.tourflow-title').textContent = view.title;
      tip.querySelector('.tourflow-content').textContent = view.body;
      const prev = tip.querySelector('.tourflow-prev');
      prev.disabled = view.back_disabled;
      prev.style.opacity = view.back_disabled ? '0.5' : '1';
      tip.querySelector('.tourflow-next').textContent = view.next_label;
      const dots = tip.querySelector('.tourflow-dots');
      dots.innerHTML = '';
      (view.dots || []).forEach((active, i) => {
        const dot = document.createElement('span');
        dot.className = 'tourflow-dot' + (active ? ' active' : '');
        dot.setAttribute('data-action', 'goto:' + i);
        dots.appendChild(dot);
      });
      return null;
    },
    tooltipBounds() {
      const tip = parts.tooltip;
      if (!tip) throw new Error('tooltip is not mounted');
      const r = tip.getBoundingClientRect();
      return {top: r.top, left: r.left, width: r.width, height: r.height};
    },
    place(pos) {
      const tip = parts.tooltip;
      if (!tip) throw new Error('tooltip is not mounted');
      if (pos.centered) {
        tip.style.position = 'fixed';
        tip.style.top = '50%';
        tip.style.left = '50%';
        tip.style.transform = 'translate(-50%, -50%)';
      } else {
        tip.style.position = 'absolute';
        tip.style.top = pos.top + 'px';
        tip.style.left = pos.left + 'px';
        tip.style.transform = 'none';
      }
      return null;
    },
    highlight(rect) {
      const spot = parts.spotlight;
      if (!spot) return null;
      if (!rect) {
        spot.style.display = 'none';
        return null;
      }
      spot.style.top = rect.top + 'px';
      spot.style.left = rect.left + 'px';
      spot.style.width = rect.width + 'px';
      spot.style.height = rect.height + 'px';
      spot.style.display = 'block';
      return null;
    },
    viewport() {
      return {width: window.innerWidth, height: window.innerHeight, scroll_x: window.scrollX, scroll_y: window.scrollY};
    },
    drain() {
      return actions.splice(0, actions.length);
    },
  };
})();
`
