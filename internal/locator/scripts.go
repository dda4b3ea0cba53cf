package locator

// The scripts below run inside the page. Each encodes one geometric
// predicate; thresholds were tuned against the live listing UI.

// controlBelowLabelJS: nearest interactive element below the label's box.
// Score is vertical distance plus damped horizontal offset; anything more
// than 260px below the label is ignored so the pick cannot jump to the next
// filter group.
const controlBelowLabelJS = `
(labelText) => {
  const norm = s => (s || '').replace(/\s+/g, ' ').trim().toLowerCase();
  const target = norm(labelText);

  const all = Array.from(document.querySelectorAll('*'));
  const labelEl = all.find(el => norm(el.textContent) === target);
  if (!labelEl) return null;

  const lb = labelEl.getBoundingClientRect();
  const root = labelEl.closest('form,section,div') || document.body;

  const candidates = Array.from(root.querySelectorAll(
    '[role="combobox"],[aria-haspopup="listbox"],div[tabindex="0"],input'
  )).filter(el => {
    const r = el.getBoundingClientRect();
    if (r.width < 30 || r.height < 18) return false;
    if (r.top < lb.bottom - 2) return false;
    if (el.tagName.toLowerCase() === 'input') {
      const ph = (el.getAttribute('placeholder') || '').toLowerCase();
      if (ph.includes('vacancy title') || ph.includes('keyword')) return false;
    }
    return true;
  });

  let best = null;
  let bestScore = 1e18;
  for (const el of candidates) {
    const r = el.getBoundingClientRect();
    const vertical = Math.abs(r.top - lb.bottom);
    const horizontal = Math.abs(r.left - lb.left) * 0.15;
    if (vertical > 260) continue;
    const score = vertical + horizontal;
    if (score < bestScore) {
      best = el;
      bestScore = score;
    }
  }
  return best;
}
`

// dropdownSearchBoxJS: search input nearest below the label. Falls back to
// scanning visible listbox/dropdown containers within 400px horizontally
// when no labelled match exists (the UI sometimes re-renders the popup
// detached from the label's subtree).
const dropdownSearchBoxJS = `
(labelText) => {
  const norm = s => (s || '').replace(/\s+/g, ' ').trim().toLowerCase();
  const target = norm(labelText);

  const all = Array.from(document.querySelectorAll('*'));
  const labelEl = all.find(el => {
    const t = norm(el.textContent);
    return t === target && el.children.length === 0;
  }) || all.find(el => norm(el.textContent) === target);
  if (!labelEl) return null;

  const lb = labelEl.getBoundingClientRect();

  const inputs = Array.from(document.querySelectorAll(
    'input[placeholder*="search" i], input[placeholder*="type" i]'
  ));

  let best = null;
  let bestDist = 1e18;
  for (const inp of inputs) {
    const r = inp.getBoundingClientRect();
    if (r.width < 20 || r.height < 10) continue;
    const ph = (inp.getAttribute('placeholder') || '').toLowerCase();
    if (ph.includes('vacancy title') || ph.includes('keyword')) continue;

    const vertDist = r.top - lb.bottom;
    const horizDist = Math.abs(r.left - lb.left);
    if (vertDist < -50) continue;

    const dist = Math.abs(vertDist) + horizDist * 0.5;
    if (dist < bestDist) {
      best = inp;
      bestDist = dist;
    }
  }

  if (!best) {
    const dropdowns = Array.from(document.querySelectorAll(
      '[role="listbox"], [class*="dropdown"], [class*="menu"], [class*="select"]'
    ));
    for (const dd of dropdowns) {
      const r = dd.getBoundingClientRect();
      if (r.width < 50 || r.height < 20) continue;

      const inp = dd.querySelector('input[placeholder*="search" i], input[placeholder*="type" i]');
      if (!inp) continue;
      const ir = inp.getBoundingClientRect();
      if (ir.width <= 20 || ir.height <= 10) continue;

      const vertDist = r.top - lb.bottom;
      const horizDist = Math.abs(r.left - lb.left);
      if (vertDist > -50 && horizDist < 400) {
        const dist = Math.abs(vertDist) + horizDist * 0.5;
        if (dist < bestDist) {
          best = inp;
          bestDist = dist;
        }
      }
    }
  }

  return best;
}
`

// activeDropdownInputJS: focused search input of an open dropdown, else the
// topmost visible one. Used when the labelled lookup misses after a popup
// re-render.
const activeDropdownInputJS = `
() => {
  const candidates = [];
  const inputs = Array.from(document.querySelectorAll('input'));

  for (const inp of inputs) {
    const r = inp.getBoundingClientRect();
    if (r.width < 20 || r.height < 10) continue;

    const ph = (inp.getAttribute('placeholder') || '').toLowerCase();
    if (ph.includes('vacancy title') || ph.includes('keyword')) continue;
    if (!ph.includes('search') && !ph.includes('type')) continue;

    let parent = inp.parentElement;
    let inDropdown = false;
    while (parent) {
      const style = window.getComputedStyle(parent);
      const hasPopupStyle = style.position === 'absolute' || style.position === 'fixed';
      const hasDropdownClass = (parent.className || '').toLowerCase().match(/dropdown|menu|popup|listbox|select|options/);
      const hasRole = parent.getAttribute('role') === 'listbox' || parent.getAttribute('aria-haspopup');
      if (hasPopupStyle || hasDropdownClass || hasRole) {
        inDropdown = true;
        break;
      }
      parent = parent.parentElement;
    }

    if (inDropdown || ph.includes('search')) {
      candidates.push({ el: inp, top: r.top, focused: document.activeElement === inp });
    }
  }

  if (candidates.length === 0) return null;
  const focused = candidates.find(c => c.focused);
  if (focused) return focused.el;
  candidates.sort((a, b) => a.top - b.top);
  return candidates[0].el;
}
`

// findOptionsJS: enumerate dropdown option rows matching a search term.
// Primary pass keys on the option rows' padding class hints; the generic
// pass only runs when the primary finds nothing (schema drift). Both
// require viewport visibility, horizontal alignment with the search input,
// a position below it, a term match, and the absence of the excluded
// keyword or an already-tracked label.
const findOptionsJS = `
(args) => {
  const searchTerm = args.searchTerm.toLowerCase().trim();
  const excluded = args.excluded.toLowerCase();
  const inputY = args.inputY;
  const inputX = args.inputX;
  const alreadySelected = args.alreadySelected || [];

  const results = [];

  const collect = (el, r) => {
    const text = el.textContent.trim();
    const textLower = text.toLowerCase();
    if (excluded && textLower.includes(excluded)) return;
    if (alreadySelected.includes(textLower)) return;
    if (!textLower.includes(searchTerm)) return;
    results.push({
      text: text,
      alreadyChecked: el.querySelector('svg') !== null,
      centerX: r.left + r.width / 2,
      centerY: r.top + r.height / 2
    });
  };

  const optionDivs = document.querySelectorAll('div[class*="py-2"][class*="px-3"]');
  for (const el of optionDivs) {
    const r = el.getBoundingClientRect();
    if (r.width < 100 || r.height < 20) continue;
    if (r.top < 0 || r.bottom > window.innerHeight) continue;
    if (Math.abs(r.left - inputX) > 80) continue;
    if (r.top < inputY + 30) continue;
    collect(el, r);
  }

  if (results.length === 0) {
    const allDivs = document.querySelectorAll('div');
    for (const el of allDivs) {
      const r = el.getBoundingClientRect();
      if (r.width < 150 || r.width > 450) continue;
      if (r.height < 25 || r.height > 70) continue;
      if (r.top < 0 || r.bottom > window.innerHeight) continue;
      if (Math.abs(r.left - inputX) > 100) continue;
      if (r.top < inputY + 30) continue;
      collect(el, r);
    }
  }

  return results;
}
`

// dropdownStillOpenJS: any usable dropdown search input still visible.
const dropdownStillOpenJS = `
() => {
  const inputs = document.querySelectorAll('input[placeholder*="search" i]');
  for (const inp of inputs) {
    const r = inp.getBoundingClientRect();
    if (r.width > 50 && r.height > 10) return true;
  }
  return false;
}
`
